package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

type ServiceRepository struct {
	col *mongo.Collection
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	var out []domain.Service
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	return out, nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Service
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// Update replaces the document only if it still matches what fn saw, so a
// concurrent edit surfaces as a retry rather than a lost update.
func (r *ServiceRepository) Update(ctx context.Context, id string, fn func(*domain.Service) error) (*domain.Service, error) {
	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		next := *current
		if err := fn(&next); err != nil {
			return nil, err
		}

		opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		res, err := r.col.ReplaceOne(opCtx, current, next)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("replace service: %w", err)
		}
		if res.MatchedCount == 1 {
			return &next, nil
		}
	}
	return nil, fmt.Errorf("replace service %s: concurrent modification", id)
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}
