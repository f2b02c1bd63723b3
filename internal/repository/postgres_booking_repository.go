package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/pkg/telemetry"
)

// PostgresBookingRepository implements BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgreSQL booking repository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

const bookingColumns = `id, event_id, user_id, quantity, unit_price, total_price, created_at`

// Reserve admits a booking against an event. The event row is locked
// for the duration of the transaction, so the status and capacity
// re-checks, the price snapshot and the insert observe a stable view
// and reservations on the same event serialize.
func (r *PostgresBookingRepository) Reserve(ctx context.Context, params ReserveParams) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.reserve")
	defer span.End()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := scanEvent(tx.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`,
		params.EventID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, classifyPgError(err)
	}

	if event.IsOwnedBy(params.UserID) {
		return nil, domain.ErrOwnerCannotBook
	}

	var booked int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM bookings WHERE event_id = $1`,
		params.EventID,
	).Scan(&booked)
	if err != nil {
		return nil, classifyPgError(err)
	}

	if status := event.Status(booked, params.Now); status != domain.EventStatusOpen {
		return nil, domain.NewStateError(status)
	}
	if left := event.TicketsLeft(booked); left < params.Quantity {
		return nil, domain.NewCapacityError(left)
	}

	booking := domain.NewBooking(
		params.BookingID, params.EventID, params.UserID,
		params.Quantity, event.Cost, params.Now,
	)

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, event_id, user_id, quantity, unit_price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		booking.ID, booking.EventID, booking.UserID,
		booking.Quantity, booking.UnitPrice, booking.TotalPrice, booking.CreatedAt,
	)
	if err != nil {
		return nil, classifyPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyPgError(err)
	}
	return booking, nil
}

// GetByID fetches a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.get_by_id")
	defer span.End()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b domain.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.EventID, &b.UserID, &b.Quantity, &b.UnitPrice, &b.TotalPrice, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// ListByUser returns the user's bookings, most recent first
func (r *PostgresBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.list_by_user")
	defer span.End()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var b domain.Booking
		err := rows.Scan(
			&b.ID, &b.EventID, &b.UserID, &b.Quantity, &b.UnitPrice, &b.TotalPrice, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// SumQuantityByEvent returns the admitted total for an event
func (r *PostgresBookingRepository) SumQuantityByEvent(ctx context.Context, eventID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.sum_quantity")
	defer span.End()

	var sum int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM bookings WHERE event_id = $1`,
		eventID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum bookings: %w", err)
	}
	return sum, nil
}

// classifyPgError maps transient serialization and deadlock failures to
// ErrConcurrencyConflict so callers can retry them.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, pgErr.Code)
		}
	}
	return fmt.Errorf("reservation failed: %w", err)
}
