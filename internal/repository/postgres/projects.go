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

// ProjectRepository implements port.ProjectRepository using PostgreSQL.
type ProjectRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var projectColumns = []string{"id", "title", "description", "budget", "user_id", "created_at"}

func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) error {
	stmt, args, err := r.builder.Insert("iyffa.projects").
		Columns(projectColumns...).
		Values(project.ID, project.Title, project.Description, project.Budget, project.UserID, project.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert project sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(&project.ID, &project.Title, &project.Description, &project.Budget, &project.UserID, &project.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	stmt, args, err := r.builder.Select(projectColumns...).
		From("iyffa.projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select project sql: %w", err)
	}

	return scanProject(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *ProjectRepository) list(ctx context.Context, limit int) ([]domain.Project, error) {
	query := r.builder.Select(projectColumns...).
		From("iyffa.projects").
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list projects sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	return r.list(ctx, 0)
}

func (r *ProjectRepository) ListRecent(ctx context.Context, limit int) ([]domain.Project, error) {
	return r.list(ctx, limit)
}

func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) error {
	stmt, args, err := r.builder.Update("iyffa.projects").
		Set("title", project.Title).
		Set("description", project.Description).
		Set("budget", project.Budget).
		Where(squirrel.Eq{"id": project.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update project sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("iyffa.projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete project sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").From("iyffa.projects").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count projects sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}

	return count, nil
}
