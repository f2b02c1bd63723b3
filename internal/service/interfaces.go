// Package service implements the business logic for events and bookings.
package service

import (
	"context"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/internal/dto"
)

// EventView pairs an event with its derived status and remaining
// tickets. Status is never stored; it is computed on every read.
type EventView struct {
	Event       domain.Event
	Status      domain.EventStatus
	TicketsLeft int
}

// EventService defines event lifecycle operations
type EventService interface {
	CreateEvent(ctx context.Context, ownerID string, req dto.CreateEventRequest) (*EventView, error)
	EditEvent(ctx context.Context, id, userID string, req dto.UpdateEventRequest) (*EventView, error)
	CancelEvent(ctx context.Context, id, userID string) (*EventView, error)
	GetEvent(ctx context.Context, id string) (*EventView, error)
	ListEvents(ctx context.Context, req dto.ListEventsRequest) ([]EventView, error)
}

// BookingService defines admission operations
type BookingService interface {
	Reserve(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error)
	ListBookingsForUser(ctx context.Context, userID string) ([]*domain.Booking, error)
}

// EventPublisher emits domain events to downstream consumers
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking *domain.Booking) error
	PublishEventCancelled(ctx context.Context, event *domain.Event) error
}
