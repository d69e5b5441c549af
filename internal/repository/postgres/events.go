package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

// EventRepository implements port.EventRepository using PostgreSQL.
type EventRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var eventColumns = []string{
	"id",
	"title",
	"description",
	"start_datetime",
	"end_datetime",
	"location",
	"price",
	"user_id",
	"created_at",
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) error {
	stmt, args, err := r.builder.Insert("iyffa.events").
		Columns(eventColumns...).
		Values(
			event.ID,
			event.Title,
			event.Description,
			event.StartDatetime,
			event.EndDatetime,
			event.Location,
			event.Price,
			event.UserID,
			event.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert event sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartDatetime,
		&event.EndDatetime,
		&event.Location,
		&event.Price,
		&event.UserID,
		&event.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	stmt, args, err := r.builder.Select(eventColumns...).
		From("iyffa.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event sql: %w", err)
	}

	return scanEvent(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *EventRepository) list(ctx context.Context, limit int) ([]domain.Event, error) {
	query := r.builder.Select(eventColumns...).
		From("iyffa.events").
		OrderBy("start_datetime DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	return r.list(ctx, 0)
}

func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	return r.list(ctx, limit)
}

// CountUpcoming counts events that have not started yet.
func (r *EventRepository) CountUpcoming(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("iyffa.events").
		Where(squirrel.Expr("start_datetime > NOW()")).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count upcoming events sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count upcoming events: %w", err)
	}

	return count, nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) error {
	stmt, args, err := r.builder.Update("iyffa.events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("start_datetime", event.StartDatetime).
		Set("end_datetime", event.EndDatetime).
		Set("location", event.Location).
		Set("price", event.Price).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update event sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("iyffa.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete event sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *EventRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").From("iyffa.events").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count events sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}

	return count, nil
}
