package domain

import (
	"strings"
	"time"
)

// Booking is one admitted ticket reservation against an event. Bookings
// are immutable once created; there is no cancel, update or delete path.
type Booking struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewBooking builds a booking with the price snapshot taken at admission
// time. Later edits to the event's cost do not affect existing bookings.
func NewBooking(id, eventID, userID string, quantity int, unitPrice float64, now time.Time) *Booking {
	return &Booking{
		ID:         id,
		EventID:    eventID,
		UserID:     userID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * float64(quantity),
		CreatedAt:  now,
	}
}

// Validate validates all booking fields.
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrInvalidBookingID
	}
	if strings.TrimSpace(b.EventID) == "" {
		return ErrInvalidEventID
	}
	if strings.TrimSpace(b.UserID) == "" {
		return ErrInvalidUserID
	}
	if b.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if b.UnitPrice < 0 {
		return ErrInvalidUnitPrice
	}
	return nil
}

// BelongsToUser checks if the booking belongs to the specified user.
func (b *Booking) BelongsToUser(userID string) bool {
	return b.UserID == userID
}
