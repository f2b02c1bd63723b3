package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/internal/dto"
	"github.com/gatherly/ticketing/internal/repository"
	"github.com/gatherly/ticketing/pkg/logger"
	"github.com/gatherly/ticketing/pkg/telemetry"
)

type eventService struct {
	events    repository.EventRepository
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewEventService creates a new event service
func NewEventService(events repository.EventRepository, publisher EventPublisher, log *logger.Logger) EventService {
	return &eventService{
		events:    events,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// CreateEvent validates and persists a new event owned by ownerID
func (s *eventService) CreateEvent(ctx context.Context, ownerID string, req dto.CreateEventRequest) (*EventView, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	if ownerID == "" {
		return nil, domain.ErrInvalidUserID
	}

	now := s.now().UTC()
	features := req.Features
	if features == "" {
		features = domain.DefaultFeatures
	}

	event := &domain.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Features:    features,
		Capacity:    req.Capacity,
		Cost:        req.Cost,
		Date:        req.Date.UTC(),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Error("failed to create event", zap.Error(err))
		return nil, err
	}

	s.logger.Info("event created",
		zap.String("event_id", event.ID),
		zap.String("owner_id", ownerID),
		zap.Int("capacity", event.Capacity))

	return s.view(event, 0), nil
}

// EditEvent applies partial updates to an event the caller owns. A
// capacity shrink below the quantity already admitted is rejected.
// Shrinking to exactly the admitted total is allowed and renders the
// event sold out; growing it past the total reopens it.
func (s *eventService) EditEvent(ctx context.Context, id, userID string, req dto.UpdateEventRequest) (*EventView, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.edit")
	defer span.End()

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsOwnedBy(userID) {
		return nil, domain.ErrNotEventOwner
	}
	if event.Cancelled {
		return nil, domain.NewStateError(domain.EventStatusCancelled)
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Features != nil {
		event.Features = *req.Features
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.Cost != nil {
		event.Cost = *req.Cost
	}
	if req.Date != nil {
		event.Date = req.Date.UTC()
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	event.UpdatedAt = s.now().UTC()

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event updated", zap.String("event_id", event.ID))
	return s.GetEvent(ctx, event.ID)
}

// CancelEvent marks an event cancelled. Cancellation is terminal and
// idempotent; existing bookings are kept as a historical record.
func (s *eventService) CancelEvent(ctx context.Context, id, userID string) (*EventView, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.cancel")
	defer span.End()

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsOwnedBy(userID) {
		return nil, domain.ErrNotEventOwner
	}

	if !event.Cancelled {
		event.Cancel(s.now().UTC())
		if err := s.events.Update(ctx, event); err != nil {
			return nil, err
		}
		if err := s.publisher.PublishEventCancelled(ctx, event); err != nil {
			s.logger.Warn("event.cancelled publish failed", zap.String("event_id", event.ID), zap.Error(err))
		}
		s.logger.Info("event cancelled", zap.String("event_id", event.ID))
	}

	return s.GetEvent(ctx, event.ID)
}

// GetEvent returns an event with its derived status and remaining tickets
func (s *eventService) GetEvent(ctx context.Context, id string) (*EventView, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	ewb, err := s.events.GetWithBooked(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(&ewb.Event, ewb.Booked), nil
}

// ListEvents returns events ordered by date, optionally filtered by a
// free-text search and by derived status.
func (s *eventService) ListEvents(ctx context.Context, req dto.ListEventsRequest) ([]EventView, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	results, err := s.events.List(ctx, repository.ListEventsFilter{Search: req.Search})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	views := make([]EventView, 0, len(results))
	for i := range results {
		e := results[i].Event
		view := EventView{
			Event:       e,
			Status:      e.Status(results[i].Booked, now),
			TicketsLeft: e.TicketsLeft(results[i].Booked),
		}
		if req.Status != "" && string(view.Status) != req.Status {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *eventService) view(event *domain.Event, booked int) *EventView {
	now := s.now().UTC()
	return &EventView{
		Event:       *event,
		Status:      event.Status(booked, now),
		TicketsLeft: event.TicketsLeft(booked),
	}
}
