package dto

import (
	"time"

	"github.com/gatherly/ticketing/internal/domain"
)

// CreateEventRequest is the payload for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location" binding:"required"`
	Features    string    `json:"features"`
	Capacity    int       `json:"capacity" binding:"required"`
	Cost        float64   `json:"cost"`
	Date        time.Time `json:"date" binding:"required"`
}

// UpdateEventRequest is the payload for editing an event. Nil fields
// are left unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Features    *string    `json:"features"`
	Capacity    *int       `json:"capacity"`
	Cost        *float64   `json:"cost"`
	Date        *time.Time `json:"date"`
}

// EventResponse is the API representation of an event, including its
// derived status and remaining tickets.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Features    string    `json:"features"`
	Capacity    int       `json:"capacity"`
	Cost        float64   `json:"cost"`
	Date        time.Time `json:"date"`
	OwnerID     string    `json:"owner_id"`
	Status      string    `json:"status"`
	TicketsLeft int       `json:"tickets_left"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListEventsRequest carries list filters from the query string
type ListEventsRequest struct {
	Search string `form:"q"`
	Status string `form:"status"`
}

// ListEventsResponse wraps a page of events
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

// EventResponseFromDomain converts a domain event plus its derived view
// fields into an API response.
func EventResponseFromDomain(e *domain.Event, status domain.EventStatus, ticketsLeft int) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Features:    e.Features,
		Capacity:    e.Capacity,
		Cost:        e.Cost,
		Date:        e.Date,
		OwnerID:     e.OwnerID,
		Status:      string(status),
		TicketsLeft: ticketsLeft,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
