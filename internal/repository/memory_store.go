package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gatherly/ticketing/internal/domain"
)

// MemoryStore is an in-memory backing store shared by the memory
// repositories. It serializes all access behind a single mutex, which
// gives reservations the same per-event atomicity as the row lock in
// the PostgreSQL implementation. Intended for local development and
// tests.
type MemoryStore struct {
	mu       sync.Mutex
	events   map[string]domain.Event
	bookings map[string]domain.Booking
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   make(map[string]domain.Event),
		bookings: make(map[string]domain.Booking),
	}
}

func (s *MemoryStore) sumQuantityLocked(eventID string) int {
	sum := 0
	for _, b := range s.bookings {
		if b.EventID == eventID {
			sum += b.Quantity
		}
	}
	return sum
}

// MemoryEventRepository implements EventRepository over a MemoryStore
type MemoryEventRepository struct {
	store *MemoryStore
}

// NewMemoryEventRepository creates a memory-backed event repository
func NewMemoryEventRepository(store *MemoryStore) *MemoryEventRepository {
	return &MemoryEventRepository{store: store}
}

// Create inserts a new event
func (r *MemoryEventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[event.ID] = *event
	return nil
}

// GetByID fetches an event by its ID
func (r *MemoryEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

// GetWithBooked fetches an event together with its admitted total
func (r *MemoryEventRepository) GetWithBooked(ctx context.Context, id string) (*EventWithBooked, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &EventWithBooked{Event: e, Booked: r.store.sumQuantityLocked(id)}, nil
}

// Update persists the event, rejecting capacity shrinks below the
// admitted total.
func (r *MemoryEventRepository) Update(ctx context.Context, event *domain.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.events[event.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if event.Capacity < current.Capacity {
		if event.Capacity < r.store.sumQuantityLocked(event.ID) {
			return domain.ErrCapacityBelowBooked
		}
	}
	r.store.events[event.ID] = *event
	return nil
}

// List returns events matching the filter ordered by date ascending
func (r *MemoryEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]EventWithBooked, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var events []EventWithBooked
	search := strings.ToLower(filter.Search)
	for _, e := range r.store.events {
		if search != "" && !eventMatches(&e, search) {
			continue
		}
		events = append(events, EventWithBooked{Event: e, Booked: r.store.sumQuantityLocked(e.ID)})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Event.Date.Before(events[j].Event.Date)
	})
	return events, nil
}

func eventMatches(e *domain.Event, search string) bool {
	for _, field := range []string{e.Title, e.Description, e.Location, e.Features} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// MemoryBookingRepository implements BookingRepository over a MemoryStore
type MemoryBookingRepository struct {
	store *MemoryStore
}

// NewMemoryBookingRepository creates a memory-backed booking repository
func NewMemoryBookingRepository(store *MemoryStore) *MemoryBookingRepository {
	return &MemoryBookingRepository{store: store}
}

// Reserve admits a booking under the store lock, mirroring the locked
// transaction of the PostgreSQL implementation.
func (r *MemoryBookingRepository) Reserve(ctx context.Context, params ReserveParams) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	event, ok := r.store.events[params.EventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if event.IsOwnedBy(params.UserID) {
		return nil, domain.ErrOwnerCannotBook
	}

	booked := r.store.sumQuantityLocked(params.EventID)
	if status := event.Status(booked, params.Now); status != domain.EventStatusOpen {
		return nil, domain.NewStateError(status)
	}
	if left := event.TicketsLeft(booked); left < params.Quantity {
		return nil, domain.NewCapacityError(left)
	}

	booking := domain.NewBooking(
		params.BookingID, params.EventID, params.UserID,
		params.Quantity, event.Cost, params.Now,
	)
	r.store.bookings[booking.ID] = *booking
	return booking, nil
}

// GetByID fetches a booking by its ID
func (r *MemoryBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

// ListByUser returns the user's bookings, most recent first
func (r *MemoryBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var bookings []*domain.Booking
	for _, b := range r.store.bookings {
		if b.UserID == userID {
			copied := b
			bookings = append(bookings, &copied)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// SumQuantityByEvent returns the admitted total for an event
func (r *MemoryBookingRepository) SumQuantityByEvent(ctx context.Context, eventID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.sumQuantityLocked(eventID), nil
}
