package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

type stubBookingRepo struct {
	mu    sync.Mutex
	items []domain.Booking
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *b)
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.ID == id {
			clone := b
			return &clone, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *stubBookingRepo) List(_ context.Context, userID string) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.items {
		if userID == "" || b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// stubIdempotency stores "" for a reserved key that has not completed yet.
type stubIdempotency struct {
	mu         sync.Mutex
	keys       map[string]string
	reserveErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserveErr != nil {
		return "", false, s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return id, false, nil
	}
	s.keys[key] = ""
	return "", true, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key, bookingID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = bookingID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

// slowServices delays lookups so concurrent callers overlap.
type slowServices struct {
	*stubServiceRepo
	delay time.Duration
}

func (s slowServices) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	time.Sleep(s.delay)
	return s.stubServiceRepo.FindByID(ctx, id)
}

func seededServices() *stubServiceRepo {
	return &stubServiceRepo{items: []domain.Service{
		{ID: "s1", Name: "Home Plumbing", Description: "pipes", Rate: 500, Currency: "INR"},
	}}
}

func TestBookingService_CreateBooking_Snapshot(t *testing.T) {
	services := seededServices()
	bookings := &stubBookingRepo{}
	svc := NewBookingService(bookings, services, nil, 0, zerolog.Nop())

	res, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{
		UserID: "u1", ServiceID: "s1", Notes: "back door",
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	b := res.Booking
	if b.ID == "" || b.UserID != "u1" || b.ServiceID != "s1" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if b.ServiceName != "Home Plumbing" || b.Rate != 500 || b.Currency != "INR" {
		t.Fatalf("service snapshot missing: %+v", b)
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if b.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}

	// Later edits to the service must not leak into the booking.
	services.items[0].Rate = 999
	stored, _ := bookings.FindByID(context.Background(), b.ID)
	if stored.Rate != 500 {
		t.Fatalf("booking rate changed with service: %v", stored.Rate)
	}
}

func TestBookingService_CreateBooking_ServiceMissing(t *testing.T) {
	bookings := &stubBookingRepo{}
	svc := NewBookingService(bookings, seededServices(), nil, 0, zerolog.Nop())

	_, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{UserID: "u1", ServiceID: "nope"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(bookings.items) != 0 {
		t.Fatalf("expected no booking record, got %d", len(bookings.items))
	}
}

func TestBookingService_CreateBooking_MissingServiceID(t *testing.T) {
	svc := NewBookingService(&stubBookingRepo{}, seededServices(), nil, 0, zerolog.Nop())

	if _, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{UserID: "u1"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBookingService_CreateBooking_IdempotentReplay(t *testing.T) {
	bookings := &stubBookingRepo{}
	idem := newStubIdempotency()
	svc := NewBookingService(bookings, seededServices(), idem, time.Hour, zerolog.Nop())

	in := ports.CreateBookingInput{UserID: "u1", ServiceID: "s1", IdempotencyKey: "k-1"}
	first, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	if !second.AlreadyExisted || second.Booking.ID != first.Booking.ID {
		t.Fatalf("expected replay of %s, got %+v", first.Booking.ID, second)
	}
	if len(bookings.items) != 1 {
		t.Fatalf("expected one stored booking, got %d", len(bookings.items))
	}

	// Same key from another user is a different booking.
	other, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{UserID: "u2", ServiceID: "s1", IdempotencyKey: "k-1"})
	if err != nil {
		t.Fatalf("other user create failed: %v", err)
	}
	if other.AlreadyExisted || other.Booking.ID == first.Booking.ID {
		t.Fatalf("idempotency key leaked across users")
	}
}

func TestBookingService_CreateBooking_IdempotencyStoreDown(t *testing.T) {
	bookings := &stubBookingRepo{}
	idem := newStubIdempotency()
	idem.reserveErr = errors.New("redis down")
	svc := NewBookingService(bookings, seededServices(), idem, time.Hour, zerolog.Nop())

	res, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{UserID: "u1", ServiceID: "s1", IdempotencyKey: "k"})
	if err != nil {
		t.Fatalf("expected booking despite idempotency failure, got %v", err)
	}
	if res.AlreadyExisted {
		t.Fatalf("expected fresh booking")
	}
}

func TestBookingService_CreateBooking_ConcurrentRetries(t *testing.T) {
	bookings := &stubBookingRepo{}
	idem := newStubIdempotency()
	services := slowServices{stubServiceRepo: seededServices(), delay: 20 * time.Millisecond}
	svc := NewBookingService(bookings, services, idem, time.Hour, zerolog.Nop())
	svc.pollInterval = time.Millisecond

	const retries = 8
	results := make([]*ports.BookingResult, retries)
	errs := make([]error, retries)
	var wg sync.WaitGroup
	for i := 0; i < retries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.CreateBooking(context.Background(), ports.CreateBookingInput{
				UserID: "u1", ServiceID: "s1", IdempotencyKey: "k-1",
			})
		}(i)
	}
	wg.Wait()

	if len(bookings.items) != 1 {
		t.Fatalf("expected exactly one booking, got %d", len(bookings.items))
	}
	created := 0
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("retry %d failed: %v", i, errs[i])
		}
		if results[i].Booking.ID != bookings.items[0].ID {
			t.Fatalf("retry %d returned booking %s, want %s", i, results[i].Booking.ID, bookings.items[0].ID)
		}
		if !results[i].AlreadyExisted {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("expected one fresh result and %d replays, got %d fresh", retries-1, created)
	}
}

func TestBookingService_CreateBooking_KeyStillPending(t *testing.T) {
	bookings := &stubBookingRepo{}
	idem := newStubIdempotency()
	idem.keys[idempotencyKey("u1", "k-1")] = ""
	svc := NewBookingService(bookings, seededServices(), idem, time.Hour, zerolog.Nop())
	svc.pollInterval = time.Millisecond
	svc.waitLimit = 10 * time.Millisecond

	_, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{UserID: "u1", ServiceID: "s1", IdempotencyKey: "k-1"})
	if !errors.Is(err, domain.ErrRequestInProgress) {
		t.Fatalf("expected ErrRequestInProgress, got %v", err)
	}
	if len(bookings.items) != 0 {
		t.Fatalf("expected no booking while the key is held, got %d", len(bookings.items))
	}
}

func TestBookingService_CreateBooking_FailureReleasesKey(t *testing.T) {
	bookings := &stubBookingRepo{}
	idem := newStubIdempotency()
	svc := NewBookingService(bookings, seededServices(), idem, time.Hour, zerolog.Nop())

	in := ports.CreateBookingInput{UserID: "u1", ServiceID: "nope", IdempotencyKey: "k-1"}
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, held := idem.keys[idempotencyKey("u1", "k-1")]; held {
		t.Fatalf("failed booking left its idempotency key reserved")
	}

	in.ServiceID = "s1"
	res, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if res.AlreadyExisted {
		t.Fatalf("expected a fresh booking on retry")
	}
}

func TestBookingService_CreateBooking_StaleKeyTakenOver(t *testing.T) {
	bookings := &stubBookingRepo{}
	idem := newStubIdempotency()
	idem.keys[idempotencyKey("u1", "k-1")] = "vanished"
	svc := NewBookingService(bookings, seededServices(), idem, time.Hour, zerolog.Nop())

	res, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{UserID: "u1", ServiceID: "s1", IdempotencyKey: "k-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Fatalf("expected a fresh booking")
	}
	if got := idem.keys[idempotencyKey("u1", "k-1")]; got != res.Booking.ID {
		t.Fatalf("key not repointed: %q", got)
	}
}

func TestBookingService_ListBookings_ScopedByRole(t *testing.T) {
	bookings := &stubBookingRepo{items: []domain.Booking{
		{ID: "b1", UserID: "u1"},
		{ID: "b2", UserID: "u2"},
		{ID: "b3", UserID: "u1"},
	}}
	svc := NewBookingService(bookings, seededServices(), nil, 0, zerolog.Nop())

	mine, err := svc.ListBookings(context.Background(), domain.Claims{UserID: "u1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 bookings for u1, got %d", len(mine))
	}

	all, _ := svc.ListBookings(context.Background(), domain.Claims{UserID: "a1", Role: domain.RoleAdmin})
	if len(all) != 3 {
		t.Fatalf("expected admin to see 3 bookings, got %d", len(all))
	}

	none, _ := svc.ListBookings(context.Background(), domain.Claims{UserID: "u9", Role: domain.RoleUser})
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}
