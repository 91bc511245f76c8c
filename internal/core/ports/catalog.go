package ports

import (
	"context"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// ServiceRepository defines persistence operations for the service catalog.
type ServiceRepository interface {
	List(ctx context.Context) ([]domain.Service, error)
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	Create(ctx context.Context, s *domain.Service) error
	// Update loads the service, applies fn and stores the result as one unit.
	Update(ctx context.Context, id string, fn func(*domain.Service) error) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}

// CreateServiceInput carries the fields of a new catalog entry.
type CreateServiceInput struct {
	Name        string
	Description string
	Rate        float64
	IconURL     string
}

// CatalogService defines use-case operations over the service catalog.
type CatalogService interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	CreateService(ctx context.Context, input CreateServiceInput) (*domain.Service, error)
	UpdateService(ctx context.Context, id string, patch domain.ServicePatch) (*domain.Service, error)
	DeleteService(ctx context.Context, id string) error
}
