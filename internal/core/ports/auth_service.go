package ports

import (
	"context"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// AuthResult is what registration and login hand back to the caller.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// TokenIssuer signs tokens for an identity.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier validates a token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
