package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/internal/dto"
	"github.com/gatherly/ticketing/internal/service"
)

func bookingRouter(svc service.BookingService, userID string) *gin.Engine {
	router := gin.New()
	h := NewBookingHandler(svc)
	router.Use(fakeAuth(userID))
	router.POST("/events/:id/reserve", h.Reserve)
	router.GET("/bookings", h.ListMine)
	return router
}

func TestReserve(t *testing.T) {
	var gotEventID, gotUserID string
	var gotQuantity int
	svc := &mockBookingService{
		reserveFn: func(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error) {
			gotEventID, gotUserID, gotQuantity = eventID, userID, quantity
			return domain.NewBooking("bk-1", eventID, userID, quantity, 12.50, time.Now().UTC()), nil
		},
	}
	router := bookingRouter(svc, "user-1")

	w := doJSON(t, router, http.MethodPost, "/events/evt-1/reserve", gin.H{"quantity": 2})
	expectStatus(t, w, http.StatusCreated)

	if gotEventID != "evt-1" || gotUserID != "user-1" || gotQuantity != 2 {
		t.Errorf("service called with (%s, %s, %d)", gotEventID, gotUserID, gotQuantity)
	}

	var resp struct {
		Data dto.BookingResponse `json:"data"`
	}
	decodeInto(t, w, &resp)
	if resp.Data.TotalPrice != 25.00 {
		t.Errorf("total_price = %v, want 25.00", resp.Data.TotalPrice)
	}
}

func TestReserveRequiresAuth(t *testing.T) {
	svc := &mockBookingService{
		reserveFn: func(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error) {
			t.Fatal("service should not be reached without a user")
			return nil, nil
		},
	}
	router := bookingRouter(svc, "")

	w := doJSON(t, router, http.MethodPost, "/events/evt-1/reserve", gin.H{"quantity": 1})
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestReserveErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "unknown event", err: domain.ErrEventNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "own event", err: domain.ErrOwnerCannotBook, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "bad quantity", err: domain.ErrInvalidQuantity, wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "sold out", err: domain.NewStateError(domain.EventStatusSoldOut), wantStatus: http.StatusConflict, wantCode: "EVENT_NOT_OPEN"},
		{name: "closed", err: domain.NewStateError(domain.EventStatusClosed), wantStatus: http.StatusConflict, wantCode: "EVENT_NOT_OPEN"},
		{name: "not enough left", err: domain.NewCapacityError(1), wantStatus: http.StatusConflict, wantCode: "INSUFFICIENT_CAPACITY"},
		{name: "conflict exhausted", err: domain.ErrConcurrencyConflict, wantStatus: http.StatusServiceUnavailable, wantCode: "CONCURRENCY_CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				reserveFn: func(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error) {
					return nil, tt.err
				},
			}
			router := bookingRouter(svc, "user-1")

			w := doJSON(t, router, http.MethodPost, "/events/evt-1/reserve", gin.H{"quantity": 1})
			expectStatus(t, w, tt.wantStatus)
			if code := errorCode(t, w); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestReserveStateErrorCarriesStatus(t *testing.T) {
	svc := &mockBookingService{
		reserveFn: func(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error) {
			return nil, domain.NewStateError(domain.EventStatusSoldOut)
		},
	}
	router := bookingRouter(svc, "user-1")

	w := doJSON(t, router, http.MethodPost, "/events/evt-1/reserve", gin.H{"quantity": 1})
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Details != "sold_out" {
		t.Errorf("details = %+v, want sold_out", resp.Error)
	}
}

func TestListMine(t *testing.T) {
	now := time.Now().UTC()
	svc := &mockBookingService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Booking, error) {
			return []*domain.Booking{
				domain.NewBooking("bk-2", "evt-1", userID, 1, 10, now),
				domain.NewBooking("bk-1", "evt-2", userID, 2, 5, now.Add(-time.Hour)),
			}, nil
		},
	}
	router := bookingRouter(svc, "user-1")

	w := doJSON(t, router, http.MethodGet, "/bookings", nil)
	expectStatus(t, w, http.StatusOK)

	var resp struct {
		Data dto.ListBookingsResponse `json:"data"`
	}
	decodeInto(t, w, &resp)
	if resp.Data.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Data.Total)
	}
	if resp.Data.Bookings[0].ID != "bk-2" {
		t.Errorf("first booking = %s, want bk-2", resp.Data.Bookings[0].ID)
	}
}

func TestListMineRequiresAuth(t *testing.T) {
	svc := &mockBookingService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Booking, error) {
			t.Fatal("service should not be reached without a user")
			return nil, nil
		},
	}
	router := bookingRouter(svc, "")

	w := doJSON(t, router, http.MethodGet, "/bookings", nil)
	expectStatus(t, w, http.StatusUnauthorized)
}
