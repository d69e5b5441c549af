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

// DocumentRepository implements port.DocumentRepository using PostgreSQL.
type DocumentRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var documentColumns = []string{"id", "url", "project_id", "created_at"}

func (r *DocumentRepository) Create(ctx context.Context, document domain.Document) error {
	stmt, args, err := r.builder.Insert("iyffa.documents").
		Columns(documentColumns...).
		Values(document.ID, document.URL, document.ProjectID, document.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert document sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var document domain.Document
	if err := row.Scan(&document.ID, &document.URL, &document.ProjectID, &document.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &document, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	stmt, args, err := r.builder.Select(documentColumns...).
		From("iyffa.documents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select document sql: %w", err)
	}

	return scanDocument(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *DocumentRepository) query(ctx context.Context, where any) ([]domain.Document, error) {
	query := r.builder.Select(documentColumns...).
		From("iyffa.documents").
		OrderBy("created_at DESC")
	if where != nil {
		query = query.Where(where)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var documents []domain.Document
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *document)
	}

	return documents, rows.Err()
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	return r.query(ctx, nil)
}

func (r *DocumentRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Document, error) {
	return r.query(ctx, squirrel.Eq{"project_id": projectID})
}

func (r *DocumentRepository) Update(ctx context.Context, document domain.Document) error {
	stmt, args, err := r.builder.Update("iyffa.documents").
		Set("url", document.URL).
		Set("project_id", document.ProjectID).
		Where(squirrel.Eq{"id": document.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update document sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("iyffa.documents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete document sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
