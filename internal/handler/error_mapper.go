// Package handler exposes the HTTP API over gin.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/pkg/response"
)

// respondDomainError maps a domain error to its HTTP representation.
// The ordering mirrors the service precondition checks, so the same
// error always yields the same status and code.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsAuthorizationError(err):
		response.Forbidden(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	default:
		if stateErr, ok := domain.IsStateError(err); ok {
			response.Error(c, http.StatusConflict, "EVENT_NOT_OPEN", stateErr.Error(), string(stateErr.Status))
			return
		}
		if capErr, ok := domain.IsCapacityError(err); ok {
			response.Error(c, http.StatusConflict, "INSUFFICIENT_CAPACITY", capErr.Error(), fmt.Sprintf("tickets_left=%d", capErr.TicketsLeft))
			return
		}
		if errors.Is(err, domain.ErrCapacityBelowBooked) {
			response.Conflict(c, "CAPACITY_BELOW_BOOKED", err.Error())
			return
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			response.Error(c, http.StatusServiceUnavailable, "CONCURRENCY_CONFLICT", err.Error(), "")
			return
		}
		response.InternalError(c, err)
	}
}
