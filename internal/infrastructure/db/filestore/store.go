// Package filestore persists every collection as a pretty-printed JSON array,
// one file per collection, under a single data directory.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
)

const (
	usersFile    = "users.json"
	servicesFile = "services.json"
	bookingsFile = "bookings.json"
	feedbackFile = "feedback.json"
	contactFile  = "contact_messages.json"
)

// userRecord is the on-disk shape of an identity; unlike domain.User it
// carries the password hash.
type userRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store owns the collections of one data directory.
type Store struct {
	dir      string
	users    *Collection[userRecord]
	services *Collection[domain.Service]
	bookings *Collection[domain.Booking]
	feedback *Collection[domain.Feedback]
	contact  *Collection[domain.ContactMessage]
}

// Open creates dir if needed and initialises any missing collection file.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{dir: dir}
	var err error
	if s.users, err = NewCollection[userRecord](filepath.Join(dir, usersFile)); err != nil {
		return nil, err
	}
	if s.services, err = NewCollection[domain.Service](filepath.Join(dir, servicesFile)); err != nil {
		return nil, err
	}
	if s.bookings, err = NewCollection[domain.Booking](filepath.Join(dir, bookingsFile)); err != nil {
		return nil, err
	}
	if s.feedback, err = NewCollection[domain.Feedback](filepath.Join(dir, feedbackFile)); err != nil {
		return nil, err
	}
	if s.contact, err = NewCollection[domain.ContactMessage](filepath.Join(dir, contactFile)); err != nil {
		return nil, err
	}
	return s, nil
}

// Ping reports whether the data directory is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir: %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Users() *UserRepository       { return &UserRepository{coll: s.users} }
func (s *Store) Services() *ServiceRepository { return &ServiceRepository{coll: s.services} }
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{coll: s.bookings} }
func (s *Store) Inbox() *InboxRepository {
	return &InboxRepository{feedback: s.feedback, contact: s.contact}
}
