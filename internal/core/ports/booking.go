package ports

import (
	"context"
	"time"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// List returns all bookings, or only userID's when userID is non-empty.
	List(ctx context.Context, userID string) ([]domain.Booking, error)
}

// IdempotencyStore remembers which booking a client-supplied key produced.
// A key is claimed with Reserve before the booking is written, then either
// completed with the booking id or released so a retry can claim it again.
type IdempotencyStore interface {
	// Reserve atomically claims key for ttl. reserved is true only for the
	// caller that now owns the key. Otherwise bookingID is the completed
	// booking, or "" while the owner is still working.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bookingID string, reserved bool, err error)
	Complete(ctx context.Context, key, bookingID string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// CreateBookingInput carries the parameters of a new booking.
type CreateBookingInput struct {
	UserID         string
	ServiceID      string
	Notes          string
	IdempotencyKey string
}

// BookingResult is returned after creating a booking.
type BookingResult struct {
	Booking *domain.Booking
	// AlreadyExisted is true when the Idempotency-Key matched an earlier booking.
	AlreadyExisted bool
}

// BookingService defines use-case operations for bookings.
type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	ListBookings(ctx context.Context, claims domain.Claims) ([]domain.Booking, error)
}
