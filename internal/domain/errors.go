package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Not found errors
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")

	// Validation errors
	ErrInvalidTitle     = errors.New("event title is required")
	ErrInvalidLocation  = errors.New("event location is required")
	ErrInvalidCapacity  = errors.New("capacity must be at least one")
	ErrInvalidCost      = errors.New("cost cannot be negative")
	ErrInvalidDate      = errors.New("event date is required")
	ErrInvalidQuantity  = errors.New("quantity must be at least one")
	ErrInvalidUnitPrice = errors.New("unit price cannot be negative")
	ErrInvalidEventID   = errors.New("invalid event id")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidBookingID = errors.New("invalid booking id")

	// Authorization errors
	ErrNotEventOwner   = errors.New("only the event owner may perform this action")
	ErrOwnerCannotBook = errors.New("creators cannot book their own event")

	// Conflict errors
	ErrCapacityBelowBooked = errors.New("capacity cannot drop below already booked quantity")
	ErrConcurrencyConflict = errors.New("reservation conflicted with concurrent requests, retry later")
)

// StateError reports a reservation attempt against an event that is not
// open, carrying the status the event was in at admission time.
type StateError struct {
	Status EventStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("event is not open for booking: %s", e.Status)
}

// NewStateError creates a StateError for the given status.
func NewStateError(status EventStatus) *StateError {
	return &StateError{Status: status}
}

// CapacityError reports a reservation that asked for more tickets than
// remain, carrying the actual remaining count so callers can offer a
// reduced quantity.
type CapacityError struct {
	TicketsLeft int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough tickets left: %d remaining", e.TicketsLeft)
}

// NewCapacityError creates a CapacityError for the remaining count.
func NewCapacityError(ticketsLeft int) *CapacityError {
	return &CapacityError{TicketsLeft: ticketsLeft}
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidLocation) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrInvalidCost) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidUnitPrice) ||
		errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidBookingID)
}

// IsAuthorizationError checks if the error is an authorization error
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrNotEventOwner) ||
		errors.Is(err, ErrOwnerCannotBook)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	if errors.Is(err, ErrCapacityBelowBooked) || errors.Is(err, ErrConcurrencyConflict) {
		return true
	}
	var capErr *CapacityError
	return errors.As(err, &capErr)
}

// IsStateError checks if the error is a StateError and returns it.
func IsStateError(err error) (*StateError, bool) {
	var stateErr *StateError
	if errors.As(err, &stateErr) {
		return stateErr, true
	}
	return nil, false
}

// IsCapacityError checks if the error is a CapacityError and returns it.
func IsCapacityError(err error) (*CapacityError, bool) {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return capErr, true
	}
	return nil, false
}
