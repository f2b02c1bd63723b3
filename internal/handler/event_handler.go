package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherly/ticketing/internal/dto"
	"github.com/gatherly/ticketing/internal/service"
	"github.com/gatherly/ticketing/pkg/middleware"
	"github.com/gatherly/ticketing/pkg/response"
)

// EventHandler handles event endpoints
type EventHandler struct {
	events service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.events.CreateEvent(c.Request.Context(), userID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Created(c, dto.EventResponseFromDomain(&view.Event, view.Status, view.TicketsLeft))
}

// Update handles PATCH /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.events.EditEvent(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, dto.EventResponseFromDomain(&view.Event, view.Status, view.TicketsLeft))
}

// Cancel handles POST /api/v1/events/:id/cancel
func (h *EventHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	view, err := h.events.CancelEvent(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, dto.EventResponseFromDomain(&view.Event, view.Status, view.TicketsLeft))
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	view, err := h.events.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Success(c, dto.EventResponseFromDomain(&view.Event, view.Status, view.TicketsLeft))
}

// List handles GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var req dto.ListEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	views, err := h.events.ListEvents(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := dto.ListEventsResponse{
		Events: make([]dto.EventResponse, 0, len(views)),
		Total:  len(views),
	}
	for i := range views {
		resp.Events = append(resp.Events, dto.EventResponseFromDomain(&views[i].Event, views[i].Status, views[i].TicketsLeft))
	}
	response.Success(c, resp)
}
