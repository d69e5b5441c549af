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

// CotisationRepository implements port.CotisationRepository using PostgreSQL.
type CotisationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewCotisationRepository(pool *pgxpool.Pool) *CotisationRepository {
	return &CotisationRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var cotisationColumns = []string{"id", "type", "amount", "user_id", "created_at"}

func (r *CotisationRepository) Create(ctx context.Context, cotisation domain.Cotisation) error {
	stmt, args, err := r.builder.Insert("iyffa.cotisations").
		Columns(cotisationColumns...).
		Values(cotisation.ID, cotisation.Type, cotisation.Amount, cotisation.UserID, cotisation.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert cotisation sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert cotisation: %w", err)
	}

	return nil
}

func scanCotisation(row pgx.Row) (*domain.Cotisation, error) {
	var cotisation domain.Cotisation
	if err := row.Scan(&cotisation.ID, &cotisation.Type, &cotisation.Amount, &cotisation.UserID, &cotisation.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan cotisation: %w", err)
	}
	return &cotisation, nil
}

func (r *CotisationRepository) GetByID(ctx context.Context, id string) (*domain.Cotisation, error) {
	stmt, args, err := r.builder.Select(cotisationColumns...).
		From("iyffa.cotisations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select cotisation sql: %w", err)
	}

	return scanCotisation(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *CotisationRepository) query(ctx context.Context, where any) ([]domain.Cotisation, error) {
	query := r.builder.Select(cotisationColumns...).
		From("iyffa.cotisations").
		OrderBy("created_at DESC")
	if where != nil {
		query = query.Where(where)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list cotisations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list cotisations: %w", err)
	}
	defer rows.Close()

	var cotisations []domain.Cotisation
	for rows.Next() {
		cotisation, err := scanCotisation(rows)
		if err != nil {
			return nil, err
		}
		cotisations = append(cotisations, *cotisation)
	}

	return cotisations, rows.Err()
}

func (r *CotisationRepository) List(ctx context.Context) ([]domain.Cotisation, error) {
	return r.query(ctx, nil)
}

func (r *CotisationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Cotisation, error) {
	return r.query(ctx, squirrel.Eq{"user_id": userID})
}

func (r *CotisationRepository) Update(ctx context.Context, cotisation domain.Cotisation) error {
	stmt, args, err := r.builder.Update("iyffa.cotisations").
		Set("type", cotisation.Type).
		Set("amount", cotisation.Amount).
		Set("user_id", cotisation.UserID).
		Where(squirrel.Eq{"id": cotisation.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update cotisation sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update cotisation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *CotisationRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("iyffa.cotisations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete cotisation sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete cotisation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
