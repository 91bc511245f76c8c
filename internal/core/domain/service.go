package domain

import "strings"

const (
	// CurrencyINR is the only currency services are priced in.
	CurrencyINR = "INR"
	// DefaultServiceIcon is used when a service is created without an icon.
	DefaultServiceIcon = "🔧"
)

// Service is a bookable catalog entry.
type Service struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Rate        float64 `json:"rate" bson:"rate"`
	Currency    string  `json:"currency" bson:"currency"`
	IconURL     string  `json:"iconUrl" bson:"icon_url"`
}

// ServicePatch carries a partial update. Empty strings and a zero rate keep
// the current value.
type ServicePatch struct {
	Name        string
	Description string
	Rate        float64
	IconURL     string
}

// Validate checks the fields required for a new service.
func (s *Service) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Description) == "" {
		missing = append(missing, "description")
	}
	if s.Rate == 0 {
		missing = append(missing, "rate")
	}
	if len(missing) > 0 {
		return InvalidInput("%s required", strings.Join(missing, ", "))
	}
	if s.Rate < 0 {
		return InvalidInput("rate must be positive")
	}
	return nil
}

// Apply merges p into s.
func (s *Service) Apply(p ServicePatch) error {
	if p.Rate < 0 {
		return InvalidInput("rate must be positive")
	}
	if p.Name != "" {
		s.Name = p.Name
	}
	if p.Description != "" {
		s.Description = p.Description
	}
	if p.Rate > 0 {
		s.Rate = p.Rate
	}
	if p.IconURL != "" {
		s.IconURL = p.IconURL
	}
	return nil
}
