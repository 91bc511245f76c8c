package ports

import (
	"context"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// InboxRepository stores feedback and contact-form submissions.
type InboxRepository interface {
	AddFeedback(ctx context.Context, f *domain.Feedback) error
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	AddContact(ctx context.Context, m *domain.ContactMessage) error
	ListContact(ctx context.Context) ([]domain.ContactMessage, error)
}

type FeedbackInput struct {
	Name    string
	Email   string
	Service string
	Rating  int
	Comment string
}

type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// InboxService handles visitor feedback and contact messages.
type InboxService interface {
	SubmitFeedback(ctx context.Context, input FeedbackInput) (*domain.Feedback, error)
	SubmitContact(ctx context.Context, input ContactInput) (*domain.ContactMessage, error)
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	ListContact(ctx context.Context) ([]domain.ContactMessage, error)
}
