package filestore

import (
	"context"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository over users.json.
type UserRepository struct {
	coll *Collection[userRecord]
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	records, err := r.coll.Read(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.Email == email {
			return rec.toDomain(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Create appends user unless its email is already present. The check and the
// append run under the same collection lock.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := userRecord{
		ID:        user.ID,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
	err := r.coll.Update(ctx, func(records []userRecord) ([]userRecord, error) {
		for _, existing := range records {
			if existing.Email == rec.Email {
				return nil, domain.ErrDuplicateIdentity
			}
		}
		return append(records, rec), nil
	})
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (rec userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.Password,
		Role:         domain.Role(rec.Role),
		CreatedAt:    rec.CreatedAt,
	}
}

// ServiceRepository implements ports.ServiceRepository over services.json.
type ServiceRepository struct {
	coll *Collection[domain.Service]
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	return r.coll.Read(ctx)
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	items, err := r.coll.Read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return r.coll.Update(ctx, func(items []domain.Service) ([]domain.Service, error) {
		return append(items, *s), nil
	})
}

func (r *ServiceRepository) Update(ctx context.Context, id string, fn func(*domain.Service) error) (*domain.Service, error) {
	var updated domain.Service
	err := r.coll.Update(ctx, func(items []domain.Service) ([]domain.Service, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			return items, nil
		}
		return nil, domain.ErrServiceNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Update(ctx, func(items []domain.Service) ([]domain.Service, error) {
		kept := items[:0]
		for _, s := range items {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		if len(kept) == len(items) {
			return nil, domain.ErrServiceNotFound
		}
		return kept, nil
	})
}

// BookingRepository implements ports.BookingRepository over bookings.json.
type BookingRepository struct {
	coll *Collection[domain.Booking]
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.coll.Update(ctx, func(items []domain.Booking) ([]domain.Booking, error) {
		return append(items, *b), nil
	})
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	items, err := r.coll.Read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *BookingRepository) List(ctx context.Context, userID string) ([]domain.Booking, error) {
	items, err := r.coll.Read(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return items, nil
	}
	out := make([]domain.Booking, 0, len(items))
	for _, b := range items {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// InboxRepository implements ports.InboxRepository over feedback.json and
// contact_messages.json.
type InboxRepository struct {
	feedback *Collection[domain.Feedback]
	contact  *Collection[domain.ContactMessage]
}

func (r *InboxRepository) AddFeedback(ctx context.Context, f *domain.Feedback) error {
	return r.feedback.Update(ctx, func(items []domain.Feedback) ([]domain.Feedback, error) {
		return append(items, *f), nil
	})
}

func (r *InboxRepository) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	return r.feedback.Read(ctx)
}

func (r *InboxRepository) AddContact(ctx context.Context, m *domain.ContactMessage) error {
	return r.contact.Update(ctx, func(items []domain.ContactMessage) ([]domain.ContactMessage, error) {
		return append(items, *m), nil
	})
}

func (r *InboxRepository) ListContact(ctx context.Context) ([]domain.ContactMessage, error) {
	return r.contact.Read(ctx)
}
