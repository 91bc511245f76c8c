package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// reservationTTL bounds how long a crashed request can hold a key.
	reservationTTL = 30 * time.Second
)

type BookingService struct {
	bookings ports.BookingRepository
	services ports.ServiceRepository
	idem     ports.IdempotencyStore
	idemTTL  time.Duration
	logger   zerolog.Logger

	// pollInterval and waitLimit govern how a retry waits on a key that
	// another request is still completing.
	pollInterval time.Duration
	waitLimit    time.Duration
}

// NewBookingService wires the booking use cases. idem may be nil, in which
// case Idempotency-Key headers are ignored.
func NewBookingService(
	bookings ports.BookingRepository,
	services ports.ServiceRepository,
	idem ports.IdempotencyStore,
	idemTTL time.Duration,
	logger zerolog.Logger,
) *BookingService {
	if idemTTL <= 0 {
		idemTTL = defaultIdempotencyTTL
	}
	return &BookingService{
		bookings: bookings,
		services: services,
		idem:     idem,
		idemTTL:  idemTTL,
		logger:   logger,

		pollInterval: 25 * time.Millisecond,
		waitLimit:    5 * time.Second,
	}
}

// CreateBooking books a service for a user, snapshotting the service name and
// rate. If an idempotency key was already used by the same user, the earlier
// booking is returned without side effects. Concurrent retries with one key
// wait for the first to finish and then replay its booking.
func (s *BookingService) CreateBooking(ctx context.Context, in ports.CreateBookingInput) (*ports.BookingResult, error) {
	if in.ServiceID == "" {
		return nil, domain.InvalidInput("serviceId is required")
	}
	if in.UserID == "" {
		return nil, domain.ErrMissingToken
	}

	idemKey := ""
	if s.idem != nil && in.IdempotencyKey != "" {
		key := idempotencyKey(in.UserID, in.IdempotencyKey)
		existing, owned, err := s.claim(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ports.BookingResult{Booking: existing, AlreadyExisted: true}, nil
		}
		if owned {
			idemKey = key
		}
	}

	booking, err := s.create(ctx, in)
	if err != nil {
		if idemKey != "" {
			s.release(idemKey)
		}
		return nil, err
	}

	if idemKey != "" {
		if err := s.idem.Complete(ctx, idemKey, booking.ID, s.idemTTL); err != nil {
			s.logger.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("user_id", booking.UserID).
		Str("service_id", booking.ServiceID).
		Msg("booking created")

	return &ports.BookingResult{Booking: booking}, nil
}

func (s *BookingService) create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Rate:        svc.Rate,
		Currency:    svc.Currency,
		Notes:       in.Notes,
		Status:      domain.BookingPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.logger.Error().Err(err).Msg("failed to create booking")
		return nil, err
	}
	return booking, nil
}

// claim reserves key for this request. It returns the earlier booking when
// the key was already completed, and owned=true when the caller must create
// the booking and complete the key. A store failure is logged and the
// booking proceeds unprotected.
func (s *BookingService) claim(ctx context.Context, key string) (*domain.Booking, bool, error) {
	deadline := time.Now().Add(s.waitLimit)
	for {
		id, reserved, err := s.idem.Reserve(ctx, key, reservationTTL)
		if err != nil {
			s.logger.Warn().Err(err).Msg("idempotency reserve failed, creating anyway")
			return nil, false, nil
		}
		if reserved {
			return nil, true, nil
		}

		if id != "" {
			existing, err := s.bookings.FindByID(ctx, id)
			if err == nil {
				s.logger.Info().Str("booking_id", id).Msg("idempotent replay")
				return existing, false, nil
			}
			if !errors.Is(err, domain.ErrBookingNotFound) {
				return nil, false, err
			}
			// The key outlived its booking; take it over.
			s.logger.Warn().Str("booking_id", id).Msg("idempotency key points at a missing booking")
			return nil, true, nil
		}

		if time.Now().After(deadline) {
			return nil, false, domain.ErrRequestInProgress
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// release frees a reservation whose booking failed so a retry can claim it.
// It outlives request cancellation.
func (s *BookingService) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.idem.Release(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

// ListBookings returns every booking to admins and only their own to users.
func (s *BookingService) ListBookings(ctx context.Context, claims domain.Claims) ([]domain.Booking, error) {
	userID := claims.UserID
	if claims.Role == domain.RoleAdmin {
		userID = ""
	}

	bookings, err := s.bookings.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

func idempotencyKey(userID, key string) string {
	return fmt.Sprintf("booking:%s:%s", userID, key)
}
