package ports

import (
	"context"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create stores a new identity, failing with domain.ErrDuplicateIdentity
	// when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
