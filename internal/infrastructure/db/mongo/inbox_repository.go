package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

type InboxRepository struct {
	feedback *mongo.Collection
	contact  *mongo.Collection
}

func (r *InboxRepository) AddFeedback(ctx context.Context, f *domain.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.feedback.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *InboxRepository) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var out []domain.Feedback
	if err := findAll(ctx, r.feedback, &out); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}

func (r *InboxRepository) AddContact(ctx context.Context, m *domain.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.contact.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *InboxRepository) ListContact(ctx context.Context) ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	if err := findAll(ctx, r.contact, &out); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return out, nil
}

// findAll decodes every document of col, oldest first, into out.
func findAll(ctx context.Context, col *mongo.Collection, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
