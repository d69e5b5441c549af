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

// ImageRepository implements port.ImageRepository using PostgreSQL.
type ImageRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var imageColumns = []string{"id", "file_path", "position", "alt_text", "event_id", "created_at", "updated_at"}

func (r *ImageRepository) Create(ctx context.Context, image domain.Image) error {
	stmt, args, err := r.builder.Insert("iyffa.images").
		Columns(imageColumns...).
		Values(
			image.ID,
			image.FilePath,
			image.Position,
			image.AltText,
			image.EventID,
			image.CreatedAt,
			image.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert image sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}

	return nil
}

func scanImage(row pgx.Row) (*domain.Image, error) {
	var image domain.Image
	if err := row.Scan(
		&image.ID,
		&image.FilePath,
		&image.Position,
		&image.AltText,
		&image.EventID,
		&image.CreatedAt,
		&image.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan image: %w", err)
	}
	return &image, nil
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	stmt, args, err := r.builder.Select(imageColumns...).
		From("iyffa.images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select image sql: %w", err)
	}

	return scanImage(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *ImageRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Image, error) {
	stmt, args, err := r.builder.Select(imageColumns...).
		From("iyffa.images").
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list images sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, *image)
	}

	return images, rows.Err()
}

func (r *ImageRepository) Update(ctx context.Context, image domain.Image) error {
	stmt, args, err := r.builder.Update("iyffa.images").
		Set("position", image.Position).
		Set("alt_text", image.AltText).
		Set("updated_at", image.UpdatedAt).
		Where(squirrel.Eq{"id": image.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update image sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("iyffa.images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete image sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
