package service

import (
	"context"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/internal/repository"
)

type mockEventRepository struct {
	createFn        func(ctx context.Context, event *domain.Event) error
	getByIDFn       func(ctx context.Context, id string) (*domain.Event, error)
	getWithBookedFn func(ctx context.Context, id string) (*repository.EventWithBooked, error)
	updateFn        func(ctx context.Context, event *domain.Event) error
	listFn          func(ctx context.Context, filter repository.ListEventsFilter) ([]repository.EventWithBooked, error)
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	return m.createFn(ctx, event)
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockEventRepository) GetWithBooked(ctx context.Context, id string) (*repository.EventWithBooked, error) {
	return m.getWithBookedFn(ctx, id)
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	return m.updateFn(ctx, event)
}

func (m *mockEventRepository) List(ctx context.Context, filter repository.ListEventsFilter) ([]repository.EventWithBooked, error) {
	return m.listFn(ctx, filter)
}

type mockBookingRepository struct {
	reserveFn            func(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error)
	getByIDFn            func(ctx context.Context, id string) (*domain.Booking, error)
	listByUserFn         func(ctx context.Context, userID string) ([]*domain.Booking, error)
	sumQuantityByEventFn func(ctx context.Context, eventID string) (int, error)
}

func (m *mockBookingRepository) Reserve(ctx context.Context, params repository.ReserveParams) (*domain.Booking, error) {
	return m.reserveFn(ctx, params)
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return m.listByUserFn(ctx, userID)
}

func (m *mockBookingRepository) SumQuantityByEvent(ctx context.Context, eventID string) (int, error) {
	return m.sumQuantityByEventFn(ctx, eventID)
}

type mockPublisher struct {
	bookingCreated []*domain.Booking
	eventCancelled []*domain.Event
	publishErr     error
}

func (m *mockPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	m.bookingCreated = append(m.bookingCreated, booking)
	return m.publishErr
}

func (m *mockPublisher) PublishEventCancelled(ctx context.Context, event *domain.Event) error {
	m.eventCancelled = append(m.eventCancelled, event)
	return m.publishErr
}
