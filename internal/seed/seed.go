// Package seed loads the starter catalog and demo accounts.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// DemoPassword is shared by the demo accounts.
const DemoPassword = "password"

// Services is the starter catalog.
var Services = []domain.Service{
	{
		ID:          "1",
		Name:        "Home Plumbing",
		Description: "Professional plumbing services for your home including repairs, installations, and maintenance.",
		Rate:        500,
		Currency:    domain.CurrencyINR,
		IconURL:     "🔧",
	},
	{
		ID:          "2",
		Name:        "Electrical Services",
		Description: "Complete electrical solutions including wiring, repairs, and installations by certified electricians.",
		Rate:        750,
		Currency:    domain.CurrencyINR,
		IconURL:     "⚡",
	},
	{
		ID:          "3",
		Name:        "House Cleaning",
		Description: "Deep cleaning services for your home with eco-friendly products and professional staff.",
		Rate:        800,
		Currency:    domain.CurrencyINR,
		IconURL:     "🧹",
	},
	{
		ID:          "4",
		Name:        "AC Repair & Service",
		Description: "Air conditioning repair, maintenance, and installation services for all brands.",
		Rate:        650,
		Currency:    domain.CurrencyINR,
		IconURL:     "❄️",
	},
	{
		ID:          "5",
		Name:        "Pest Control",
		Description: "Safe and effective pest control services for homes and offices using eco-friendly methods.",
		Rate:        1200,
		Currency:    domain.CurrencyINR,
		IconURL:     "🐛",
	},
}

// DemoAccount is an identity created by the seeder.
type DemoAccount struct {
	Email string
	Role  domain.Role
}

var DemoAccounts = []DemoAccount{
	{Email: "user@demo.com", Role: domain.RoleUser},
	{Email: "admin@demo.com", Role: domain.RoleAdmin},
}

// Result counts what a run actually wrote.
type Result struct {
	ServicesAdded int
	UsersAdded    int
}

// Seeder writes the starter data. Existing service ids and emails are left
// untouched, so running it twice is harmless.
type Seeder struct {
	services ports.ServiceRepository
	auth     ports.AuthService
	log      zerolog.Logger
}

func New(services ports.ServiceRepository, auth ports.AuthService, log zerolog.Logger) *Seeder {
	return &Seeder{services: services, auth: auth, log: log}
}

func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	for _, svc := range Services {
		_, err := s.services.FindByID(ctx, svc.ID)
		if err == nil {
			s.log.Debug().Str("service_id", svc.ID).Msg("service exists, skipping")
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return res, fmt.Errorf("look up service %s: %w", svc.ID, err)
		}

		svc := svc
		if err := s.services.Create(ctx, &svc); err != nil {
			return res, fmt.Errorf("create service %s: %w", svc.ID, err)
		}
		res.ServicesAdded++
		s.log.Info().Str("service_id", svc.ID).Str("name", svc.Name).Float64("rate", svc.Rate).Msg("service seeded")
	}

	for _, acct := range DemoAccounts {
		_, err := s.auth.Register(ctx, acct.Email, DemoPassword, string(acct.Role))
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			s.log.Debug().Str("email", acct.Email).Msg("account exists, skipping")
			continue
		}
		if err != nil {
			return res, fmt.Errorf("register %s: %w", acct.Email, err)
		}
		res.UsersAdded++
	}

	return res, nil
}
