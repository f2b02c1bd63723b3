package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherly/ticketing/internal/dto"
	"github.com/gatherly/ticketing/internal/service"
	"github.com/gatherly/ticketing/pkg/middleware"
	"github.com/gatherly/ticketing/pkg/response"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookings service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Reserve handles POST /api/v1/events/:id/reserve
func (h *BookingHandler) Reserve(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookings.Reserve(c.Request.Context(), c.Param("id"), userID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.Created(c, dto.BookingResponseFromDomain(booking))
}

// ListMine handles GET /api/v1/bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	bookings, err := h.bookings.ListBookingsForUser(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := dto.ListBookingsResponse{
		Bookings: make([]dto.BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, dto.BookingResponseFromDomain(b))
	}
	response.Success(c, resp)
}
