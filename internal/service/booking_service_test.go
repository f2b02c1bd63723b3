package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/internal/repository"
	"github.com/gatherly/ticketing/pkg/logger"
	"github.com/gatherly/ticketing/pkg/retry"
)

func newTestBookingService(events repository.EventRepository, bookings repository.BookingRepository, pub EventPublisher) *bookingService {
	cfg := &retry.Config{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
	svc := NewBookingService(events, bookings, pub, logger.Get(), cfg).(*bookingService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func eventRepoReturning(event *domain.Event) *mockEventRepository {
	return &mockEventRepository{
		getByIDFn: func(ctx context.Context, id string) (*domain.Event, error) {
			if event == nil || event.ID != id {
				return nil, domain.ErrEventNotFound
			}
			return event, nil
		},
	}
}

func TestReserve(t *testing.T) {
	event := storedEvent()
	var gotParams repository.ReserveParams
	bookings := &mockBookingRepository{
		reserveFn: func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
			gotParams = params
			return domain.NewBooking(params.BookingID, params.EventID, params.UserID, params.Quantity, event.Cost, params.Now), nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestBookingService(eventRepoReturning(event), bookings, pub)

	booking, err := svc.Reserve(context.Background(), "evt-1", "user-1", 2)
	require.NoError(t, err)

	assert.NotEmpty(t, gotParams.BookingID)
	assert.Equal(t, 2, booking.Quantity)
	assert.Equal(t, 15.00, booking.UnitPrice)
	assert.Equal(t, 30.00, booking.TotalPrice)
	require.Len(t, pub.bookingCreated, 1)
	assert.Equal(t, booking.ID, pub.bookingCreated[0].ID)
}

func TestReservePreconditionOrder(t *testing.T) {
	event := storedEvent()

	tests := []struct {
		name     string
		eventID  string
		userID   string
		quantity int
		wantErr  error
	}{
		{name: "unknown event reported before quantity", eventID: "missing", userID: "user-1", quantity: 0, wantErr: domain.ErrEventNotFound},
		{name: "owner reported before quantity", eventID: "evt-1", userID: "owner-1", quantity: 0, wantErr: domain.ErrOwnerCannotBook},
		{name: "zero quantity", eventID: "evt-1", userID: "user-1", quantity: 0, wantErr: domain.ErrInvalidQuantity},
		{name: "negative quantity", eventID: "evt-1", userID: "user-1", quantity: -2, wantErr: domain.ErrInvalidQuantity},
		{name: "empty event id", eventID: "", userID: "user-1", quantity: 1, wantErr: domain.ErrInvalidEventID},
		{name: "empty user id", eventID: "evt-1", userID: "", quantity: 1, wantErr: domain.ErrInvalidUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &mockBookingRepository{
				reserveFn: func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
					t.Fatal("repository should not be reached")
					return nil, nil
				},
			}
			svc := newTestBookingService(eventRepoReturning(event), bookings, &mockPublisher{})

			_, err := svc.Reserve(context.Background(), tt.eventID, tt.userID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReserveStateErrorNotRetried(t *testing.T) {
	event := storedEvent()
	calls := 0
	bookings := &mockBookingRepository{
		reserveFn: func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
			calls++
			return nil, domain.NewStateError(domain.EventStatusClosed)
		},
	}
	svc := newTestBookingService(eventRepoReturning(event), bookings, &mockPublisher{})

	_, err := svc.Reserve(context.Background(), "evt-1", "user-1", 1)

	stateErr, ok := domain.IsStateError(err)
	require.True(t, ok, "expected StateError, got %v", err)
	assert.Equal(t, domain.EventStatusClosed, stateErr.Status)
	assert.Equal(t, 1, calls, "state errors are permanent")
}

func TestReserveCapacityErrorCarriesRemaining(t *testing.T) {
	event := storedEvent()
	bookings := &mockBookingRepository{
		reserveFn: func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
			return nil, domain.NewCapacityError(3)
		},
	}
	svc := newTestBookingService(eventRepoReturning(event), bookings, &mockPublisher{})

	_, err := svc.Reserve(context.Background(), "evt-1", "user-1", 5)

	capErr, ok := domain.IsCapacityError(err)
	require.True(t, ok, "expected CapacityError, got %v", err)
	assert.Equal(t, 3, capErr.TicketsLeft)
}

func TestReserveRetriesTransientConflict(t *testing.T) {
	event := storedEvent()
	calls := 0
	bookings := &mockBookingRepository{
		reserveFn: func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
			calls++
			if calls < 3 {
				return nil, fmt.Errorf("%w: 40001", domain.ErrConcurrencyConflict)
			}
			return domain.NewBooking(params.BookingID, params.EventID, params.UserID, params.Quantity, event.Cost, params.Now), nil
		},
	}
	svc := newTestBookingService(eventRepoReturning(event), bookings, &mockPublisher{})

	booking, err := svc.Reserve(context.Background(), "evt-1", "user-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.NotNil(t, booking)
}

func TestReserveGivesUpAfterRepeatedConflicts(t *testing.T) {
	event := storedEvent()
	calls := 0
	bookings := &mockBookingRepository{
		reserveFn: func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
			calls++
			return nil, fmt.Errorf("%w: 40001", domain.ErrConcurrencyConflict)
		},
	}
	pub := &mockPublisher{}
	svc := newTestBookingService(eventRepoReturning(event), bookings, pub)

	_, err := svc.Reserve(context.Background(), "evt-1", "user-1", 1)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 4, calls, "initial attempt plus three retries")
	assert.Empty(t, pub.bookingCreated)
}

func TestReservePublishFailureDoesNotFailBooking(t *testing.T) {
	event := storedEvent()
	bookings := &mockBookingRepository{
		reserveFn: func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
			return domain.NewBooking(params.BookingID, params.EventID, params.UserID, params.Quantity, event.Cost, params.Now), nil
		},
	}
	pub := &mockPublisher{publishErr: fmt.Errorf("broker down")}
	svc := newTestBookingService(eventRepoReturning(event), bookings, pub)

	booking, err := svc.Reserve(context.Background(), "evt-1", "user-1", 1)
	require.NoError(t, err)
	assert.NotNil(t, booking)
}

func TestListBookingsForUser(t *testing.T) {
	bookings := &mockBookingRepository{
		listByUserFn: func(ctx context.Context, userID string) ([]*domain.Booking, error) {
			return []*domain.Booking{
				domain.NewBooking("bk-2", "evt-1", userID, 1, 10, testNow),
				domain.NewBooking("bk-1", "evt-2", userID, 2, 5, testNow.Add(-time.Hour)),
			}, nil
		},
	}
	svc := newTestBookingService(&mockEventRepository{}, bookings, &mockPublisher{})

	got, err := svc.ListBookingsForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListBookingsForUserRequiresUserID(t *testing.T) {
	svc := newTestBookingService(&mockEventRepository{}, &mockBookingRepository{}, &mockPublisher{})

	_, err := svc.ListBookingsForUser(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)
}
