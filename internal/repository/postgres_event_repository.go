package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/ticketing/internal/domain"
	"github.com/gatherly/ticketing/pkg/telemetry"
)

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `id, title, description, location, features, capacity, cost, date, owner_id, cancelled, created_at, updated_at`

// Create inserts a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.event.create")
	defer span.End()

	query := `
		INSERT INTO events (id, title, description, location, features, capacity, cost, date, owner_id, cancelled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.Title, event.Description, event.Location, event.Features,
		event.Capacity, event.Cost, event.Date, event.OwnerID, event.Cancelled,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetByID fetches an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.event.get_by_id")
	defer span.End()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// GetWithBooked fetches an event together with its admitted total
func (r *PostgresEventRepository) GetWithBooked(ctx context.Context, id string) (*EventWithBooked, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.event.get_with_booked")
	defer span.End()

	query := `
		SELECT e.id, e.title, e.description, e.location, e.features, e.capacity, e.cost,
		       e.date, e.owner_id, e.cancelled, e.created_at, e.updated_at,
		       COALESCE(SUM(b.quantity), 0) AS booked
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.id`

	row := r.pool.QueryRow(ctx, query, id)
	ewb, err := scanEventWithBooked(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event with booked: %w", err)
	}
	return ewb, nil
}

// Update persists the event's mutable fields. The event row is locked
// so a capacity shrink races neither with reservations nor with other
// edits; the update is rejected if it would drop capacity below the
// quantity already admitted.
func (r *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.event.update")
	defer span.End()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentCapacity int
	err = tx.QueryRow(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, event.ID).Scan(&currentCapacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("failed to lock event: %w", err)
	}

	if event.Capacity < currentCapacity {
		var booked int
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(SUM(quantity), 0) FROM bookings WHERE event_id = $1`,
			event.ID,
		).Scan(&booked)
		if err != nil {
			return fmt.Errorf("failed to sum bookings: %w", err)
		}
		if event.Capacity < booked {
			return domain.ErrCapacityBelowBooked
		}
	}

	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, features = $5,
		    capacity = $6, cost = $7, date = $8, cancelled = $9, updated_at = $10
		WHERE id = $1`

	_, err = tx.Exec(ctx, query,
		event.ID, event.Title, event.Description, event.Location, event.Features,
		event.Capacity, event.Cost, event.Date, event.Cancelled, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns events matching the filter ordered by date ascending
func (r *PostgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]EventWithBooked, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.event.list")
	defer span.End()

	query := `
		SELECT e.id, e.title, e.description, e.location, e.features, e.capacity, e.cost,
		       e.date, e.owner_id, e.cancelled, e.created_at, e.updated_at,
		       COALESCE(SUM(b.quantity), 0) AS booked
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id`

	args := []any{}
	if filter.Search != "" {
		query += `
		WHERE e.title ILIKE $1 OR e.description ILIKE $1 OR e.location ILIKE $1 OR e.features ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}
	query += `
		GROUP BY e.id
		ORDER BY e.date ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []EventWithBooked
	for rows.Next() {
		ewb, err := scanEventWithBooked(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ewb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Features,
		&e.Capacity, &e.Cost, &e.Date, &e.OwnerID, &e.Cancelled,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEventWithBooked(row pgx.Row) (*EventWithBooked, error) {
	var ewb EventWithBooked
	e := &ewb.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Features,
		&e.Capacity, &e.Cost, &e.Date, &e.OwnerID, &e.Cancelled,
		&e.CreatedAt, &e.UpdatedAt,
		&ewb.Booked,
	)
	if err != nil {
		return nil, err
	}
	return &ewb, nil
}
