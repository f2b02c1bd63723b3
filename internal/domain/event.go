package domain

import (
	"strings"
	"time"
)

// EventStatus is the externally visible lifecycle state of an event.
// It is always derived from the event record, the admitted booking
// quantity and the clock; it is never stored.
type EventStatus string

const (
	EventStatusOpen      EventStatus = "open"
	EventStatusSoldOut   EventStatus = "sold_out"
	EventStatusClosed    EventStatus = "closed"
	EventStatusCancelled EventStatus = "cancelled"
)

// String returns the string representation of EventStatus.
func (s EventStatus) String() string {
	return string(s)
}

// Event represents a bookable event published by an organizer.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Features    string    `json:"features"`
	Capacity    int       `json:"capacity"`
	Cost        float64   `json:"cost"`
	Date        time.Time `json:"date"`
	OwnerID     string    `json:"owner_id"`
	Cancelled   bool      `json:"cancelled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultFeatures is used when an organizer does not tag the event.
const DefaultFeatures = "regular"

// Validate validates all event fields.
func (e *Event) Validate() error {
	if err := e.ValidateTitle(); err != nil {
		return err
	}
	if err := e.ValidateLocation(); err != nil {
		return err
	}
	if err := e.ValidateCapacity(); err != nil {
		return err
	}
	if err := e.ValidateCost(); err != nil {
		return err
	}
	return e.ValidateDate()
}

// ValidateTitle validates the event title.
func (e *Event) ValidateTitle() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrInvalidTitle
	}
	return nil
}

// ValidateLocation validates the event location.
func (e *Event) ValidateLocation() error {
	if strings.TrimSpace(e.Location) == "" {
		return ErrInvalidLocation
	}
	return nil
}

// ValidateCapacity validates the declared capacity.
func (e *Event) ValidateCapacity() error {
	if e.Capacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// ValidateCost validates the ticket cost.
func (e *Event) ValidateCost() error {
	if e.Cost < 0 {
		return ErrInvalidCost
	}
	return nil
}

// ValidateDate validates the event occurrence time. Past dates are
// allowed; the status evaluator reports such events as closed.
func (e *Event) ValidateDate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsOwnedBy checks if the event was created by the given user.
func (e *Event) IsOwnedBy(userID string) bool {
	return e.OwnerID == userID
}

// Cancel marks the event as cancelled. Cancellation is one-way.
func (e *Event) Cancel(now time.Time) {
	e.Cancelled = true
	e.UpdatedAt = now
}

// Status derives the event's lifecycle state from the admitted booking
// quantity and the clock. Precedence: cancelled, then past date, then
// exhausted capacity. Sold-out is not sticky: raising capacity reopens
// the event on the next evaluation.
func (e *Event) Status(admitted int, now time.Time) EventStatus {
	switch {
	case e.Cancelled:
		return EventStatusCancelled
	case e.Date.Before(now):
		return EventStatusClosed
	case e.Capacity-admitted <= 0:
		return EventStatusSoldOut
	default:
		return EventStatusOpen
	}
}

// TicketsLeft returns the remaining bookable quantity, never negative.
func (e *Event) TicketsLeft(admitted int) int {
	left := e.Capacity - admitted
	if left < 0 {
		return 0
	}
	return left
}
