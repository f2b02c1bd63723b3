package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/internal/repository"
	"github.com/gatherly/ticketing/pkg/logger"
	"github.com/gatherly/ticketing/pkg/retry"
	"github.com/gatherly/ticketing/pkg/telemetry"
)

type bookingService struct {
	events    repository.EventRepository
	bookings  repository.BookingRepository
	publisher EventPublisher
	logger    *logger.Logger
	retryCfg  *retry.Config
	now       func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	events repository.EventRepository,
	bookings repository.BookingRepository,
	publisher EventPublisher,
	log *logger.Logger,
	retryCfg *retry.Config,
) BookingService {
	return &bookingService{
		events:    events,
		bookings:  bookings,
		publisher: publisher,
		logger:    log,
		retryCfg:  retryCfg,
		now:       time.Now,
	}
}

// Reserve admits quantity tickets on an event for userID. Preconditions
// are checked in a fixed order so callers get a stable error for any
// given state: existence, then ownership, then quantity, then event
// status, then capacity. The status and capacity checks run atomically
// with the insert; transient transaction conflicts are retried a few
// times before the caller is asked to retry.
func (s *bookingService) Reserve(ctx context.Context, eventID, userID string, quantity int) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.reserve")
	defer span.End()

	if eventID == "" {
		return nil, domain.ErrInvalidEventID
	}
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsOwnedBy(userID) {
		return nil, domain.ErrOwnerCannotBook
	}
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	params := repository.ReserveParams{
		BookingID: uuid.New().String(),
		EventID:   eventID,
		UserID:    userID,
		Quantity:  quantity,
		Now:       s.now().UTC(),
	}

	var booking *domain.Booking
	result := retry.Do(ctx, s.retryCfg, func(ctx context.Context) error {
		b, err := s.bookings.Reserve(ctx, params)
		if err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				return err
			}
			return retry.Permanent(err)
		}
		booking = b
		return nil
	})
	if result.Err != nil {
		if errors.Is(result.LastError, domain.ErrConcurrencyConflict) {
			s.logger.Warn("reservation gave up after conflicts",
				zap.String("event_id", eventID),
				zap.Int("attempts", result.Attempts))
			return nil, domain.ErrConcurrencyConflict
		}
		return nil, result.Err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
		zap.Int("quantity", quantity),
		zap.Float64("total_price", booking.TotalPrice))

	if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
		s.logger.Warn("booking.created publish failed", zap.String("booking_id", booking.ID), zap.Error(err))
	}

	return booking, nil
}

// ListBookingsForUser returns the user's bookings, most recent first
func (s *bookingService) ListBookingsForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_for_user")
	defer span.End()

	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	return s.bookings.ListByUser(ctx, userID)
}
