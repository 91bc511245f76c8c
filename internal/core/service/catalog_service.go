package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// CatalogService manages the list of bookable services.
type CatalogService struct {
	repo ports.ServiceRepository
	log  zerolog.Logger
}

func NewCatalogService(repo ports.ServiceRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

func (s *CatalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []domain.Service{}
	}
	return services, nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateService adds a service priced in INR. The icon falls back to
// domain.DefaultServiceIcon.
func (s *CatalogService) CreateService(ctx context.Context, in ports.CreateServiceInput) (*domain.Service, error) {
	svc := &domain.Service{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Rate:        in.Rate,
		Currency:    domain.CurrencyINR,
		IconURL:     in.IconURL,
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if svc.IconURL == "" {
		svc.IconURL = domain.DefaultServiceIcon
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		s.log.Error().Err(err).Msg("failed to create service")
		return nil, err
	}

	s.log.Info().Str("service_id", svc.ID).Str("name", svc.Name).Msg("service created")
	return svc, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id string, patch domain.ServicePatch) (*domain.Service, error) {
	updated, err := s.repo.Update(ctx, id, func(svc *domain.Service) error {
		return svc.Apply(patch)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("service_id", id).Msg("service updated")
	return updated, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("service_id", id).Msg("service deleted")
	return nil
}
