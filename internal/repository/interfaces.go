// Package repository provides data access for events and bookings.
package repository

import (
	"context"
	"time"

	"github.com/gatherly/ticketing/internal/domain"
)

// EventWithBooked pairs an event with the total quantity already
// admitted against it.
type EventWithBooked struct {
	Event  domain.Event
	Booked int
}

// ListEventsFilter narrows the event listing. Search matches against
// title, description, location and features.
type ListEventsFilter struct {
	Search string
}

// ReserveParams carries everything needed to attempt an admission.
// UnitPrice is not included: it is snapshotted from the event row
// inside the reservation transaction.
type ReserveParams struct {
	BookingID string
	EventID   string
	UserID    string
	Quantity  int
	Now       time.Time
}

// EventRepository persists events
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// GetWithBooked returns the event together with its admitted total.
	GetWithBooked(ctx context.Context, id string) (*EventWithBooked, error)
	// Update persists the event's mutable fields. When capacity shrinks
	// below the admitted total it fails with ErrCapacityBelowBooked and
	// leaves the row untouched.
	Update(ctx context.Context, event *domain.Event) error
	// List returns events matching the filter ordered by date ascending,
	// each with its admitted total.
	List(ctx context.Context, filter ListEventsFilter) ([]EventWithBooked, error)
}

// BookingRepository persists bookings
type BookingRepository interface {
	// Reserve atomically re-verifies the event's state and remaining
	// capacity, snapshots the unit price, and inserts the booking. The
	// state and capacity checks and the insert are serialized per event
	// so concurrent reservations can never admit past capacity.
	Reserve(ctx context.Context, params ReserveParams) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// ListByUser returns the user's bookings, most recent first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	// SumQuantityByEvent returns the admitted total for an event.
	SumQuantityByEvent(ctx context.Context, eventID string) (int, error)
}
