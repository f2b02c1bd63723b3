package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/internal/dto"
	"github.com/gatherly/ticketing/internal/service"
	"github.com/gatherly/ticketing/pkg/middleware"
	"github.com/gatherly/ticketing/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockEventService struct {
	createFn func(ctx context.Context, ownerID string, req dto.CreateEventRequest) (*service.EventView, error)
	editFn   func(ctx context.Context, id, userID string, req dto.UpdateEventRequest) (*service.EventView, error)
	cancelFn func(ctx context.Context, id, userID string) (*service.EventView, error)
	getFn    func(ctx context.Context, id string) (*service.EventView, error)
	listFn   func(ctx context.Context, req dto.ListEventsRequest) ([]service.EventView, error)
}

func (m *mockEventService) CreateEvent(ctx context.Context, ownerID string, req dto.CreateEventRequest) (*service.EventView, error) {
	return m.createFn(ctx, ownerID, req)
}

func (m *mockEventService) EditEvent(ctx context.Context, id, userID string, req dto.UpdateEventRequest) (*service.EventView, error) {
	return m.editFn(ctx, id, userID, req)
}

func (m *mockEventService) CancelEvent(ctx context.Context, id, userID string) (*service.EventView, error) {
	return m.cancelFn(ctx, id, userID)
}

func (m *mockEventService) GetEvent(ctx context.Context, id string) (*service.EventView, error) {
	return m.getFn(ctx, id)
}

func (m *mockEventService) ListEvents(ctx context.Context, req dto.ListEventsRequest) ([]service.EventView, error) {
	return m.listFn(ctx, req)
}

type mockBookingService struct {
	reserveFn func(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error)
	listFn    func(ctx context.Context, userID string) ([]*domain.Booking, error)
}

func (m *mockBookingService) Reserve(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error) {
	return m.reserveFn(ctx, eventID, userID, quantity)
}

func (m *mockBookingService) ListBookingsForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return m.listFn(ctx, userID)
}

// fakeAuth injects a fixed user id, standing in for the JWT middleware.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextKeyUserID, userID)
		}
		c.Next()
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeEnvelope(t, w)
	if resp.Error == nil {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
	return resp.Error.Code
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body %s", w.Code, want, w.Body.String())
	}
}
