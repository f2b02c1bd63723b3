package dto

import (
	"time"

	"github.com/gatherly/ticketing/internal/domain"
)

// ReserveRequest is the payload for reserving tickets on an event
type ReserveRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// BookingResponse is the API representation of a booking
type BookingResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListBookingsResponse wraps a user's bookings
type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// BookingResponseFromDomain converts a domain booking into an API response
func BookingResponseFromDomain(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		EventID:    b.EventID,
		UserID:     b.UserID,
		Quantity:   b.Quantity,
		UnitPrice:  b.UnitPrice,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
	}
}
