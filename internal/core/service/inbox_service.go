package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// InboxService stores feedback and contact-form messages for admins to read.
type InboxService struct {
	repo ports.InboxRepository
	log  zerolog.Logger
}

func NewInboxService(repo ports.InboxRepository, log zerolog.Logger) *InboxService {
	return &InboxService{repo: repo, log: log}
}

func (s *InboxService) SubmitFeedback(ctx context.Context, in ports.FeedbackInput) (*domain.Feedback, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, domain.InvalidInput("name and email are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.InvalidInput("rating must be between 1 and 5")
	}

	f := &domain.Feedback{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Service:   in.Service,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddFeedback(ctx, f); err != nil {
		return nil, err
	}

	s.log.Info().Str("feedback_id", f.ID).Int("rating", f.Rating).Msg("feedback received")
	return f, nil
}

func (s *InboxService) SubmitContact(ctx context.Context, in ports.ContactInput) (*domain.ContactMessage, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, domain.InvalidInput("name, email and message are required")
	}

	m := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddContact(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info().Str("message_id", m.ID).Msg("contact message received")
	return m, nil
}

func (s *InboxService) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	items, err := s.repo.ListFeedback(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	return items, nil
}

func (s *InboxService) ListContact(ctx context.Context) ([]domain.ContactMessage, error) {
	items, err := s.repo.ListContact(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ContactMessage{}
	}
	return items, nil
}
