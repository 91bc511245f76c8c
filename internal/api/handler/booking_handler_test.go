package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/servicebazaar/bazaar-api/internal/api/middleware"
	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

type stubBookingService struct {
	input    ports.CreateBookingInput
	replayed bool
	err      error
	listFor  domain.Claims
}

func (s *stubBookingService) CreateBooking(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingResult, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &ports.BookingResult{
		Booking:        &domain.Booking{ID: "b-1", UserID: in.UserID, ServiceID: in.ServiceID, Status: domain.BookingPending},
		AlreadyExisted: s.replayed,
	}, nil
}

func (s *stubBookingService) ListBookings(ctx context.Context, claims domain.Claims) ([]domain.Booking, error) {
	s.listFor = claims
	return []domain.Booking{}, nil
}

func TestBookingHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{}
	handler := NewBookingHandler(stub)

	req := jsonRequest(http.MethodPost, "/bookings", `{"serviceId":" 1 ","notes":"evening please"}`)
	req.Header.Set(HeaderIdempotencyKey, "retry-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ClaimsKey, &domain.Claims{UserID: "u-1", Role: domain.RoleUser})

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	want := ports.CreateBookingInput{UserID: "u-1", ServiceID: "1", Notes: "evening please", IdempotencyKey: "retry-1"}
	if stub.input != want {
		t.Fatalf("unexpected input: %+v", stub.input)
	}
}

func TestBookingHandler_Create_Replay(t *testing.T) {
	e := newTestEcho()
	handler := NewBookingHandler(&stubBookingService{replayed: true})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/bookings", `{"serviceId":"1"}`), rec)
	c.Set(middleware.ClaimsKey, &domain.Claims{UserID: "u-1", Role: domain.RoleUser})

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a replay, got %d", rec.Code)
	}
}

func TestBookingHandler_Create_Errors(t *testing.T) {
	e := newTestEcho()

	handler := NewBookingHandler(&stubBookingService{err: domain.ErrServiceNotFound})
	c := e.NewContext(jsonRequest(http.MethodPost, "/bookings", `{"serviceId":"missing"}`), httptest.NewRecorder())
	c.Set(middleware.ClaimsKey, &domain.Claims{UserID: "u-1", Role: domain.RoleUser})
	if err := handler.Create(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/bookings", `{}`), httptest.NewRecorder())
	c.Set(middleware.ClaimsKey, &domain.Claims{UserID: "u-1", Role: domain.RoleUser})
	if err := handler.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/bookings", `{"serviceId":"1"}`), httptest.NewRecorder())
	if err := handler.Create(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected missing token, got %v", err)
	}
}

func TestBookingHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{}
	handler := NewBookingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/bookings", nil), rec)
	c.Set(middleware.ClaimsKey, &domain.Claims{UserID: "admin-1", Role: domain.RoleAdmin})

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.listFor.UserID != "admin-1" || stub.listFor.Role != domain.RoleAdmin {
		t.Fatalf("claims not forwarded: %+v", stub.listFor)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}
