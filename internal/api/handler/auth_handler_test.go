package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/servicebazaar/bazaar-api/internal/api/middleware"
	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password, role string) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
	return s.registerFn(ctx, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			if email != "alice@example.com" || password != "secret" || role != "admin" {
				t.Fatalf("unexpected args: %s %s %s", email, password, role)
			}
			return &ports.AuthResult{
				Token: "tok",
				User:  &domain.User{ID: "u-1", Email: email, PasswordHash: "hash", Role: domain.RoleAdmin},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret","role":"admin"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"missing email":  `{"password":"secret"}`,
		"invalid email":  `{"email":"nope","password":"secret"}`,
		"missing secret": `{"email":"a@example.com"}`,
		"unknown role":   `{"email":"a@example.com","password":"secret","role":"root"}`,
		"malformed body": `{"email":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			handler := NewAuthHandler(&stubAuthService{
				registerFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
					t.Fatalf("service must not be called")
					return nil, nil
				},
			})
			c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), httptest.NewRecorder())

			if err := handler.Register(c); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
			return nil, domain.ErrDuplicateIdentity
		},
	})
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"email":"bob@example.com","password":"x"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if password != "right" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.AuthResult{Token: "tok", User: &domain.User{ID: "u-1", Email: email, Role: domain.RoleUser}}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"right"}`), rec)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"wrong"}`), httptest.NewRecorder())
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	c.Set(middleware.ClaimsKey, &domain.Claims{UserID: "u-1", Email: "a@example.com", Role: domain.RoleUser})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u-1" || resp["role"] != "user" {
		t.Fatalf("unexpected claims payload: %+v", resp)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), httptest.NewRecorder())
	if err := handler.Me(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken without claims, got %v", err)
	}
}
