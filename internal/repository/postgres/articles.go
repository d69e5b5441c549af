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

// ArticleRepository implements port.ArticleRepository using PostgreSQL.
type ArticleRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var articleColumns = []string{"id", "title", "text", "user_id", "created_at"}

func (r *ArticleRepository) Create(ctx context.Context, article domain.Article) error {
	stmt, args, err := r.builder.Insert("iyffa.articles").
		Columns(articleColumns...).
		Values(article.ID, article.Title, article.Text, article.UserID, article.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert article sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	return nil
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var article domain.Article
	if err := row.Scan(&article.ID, &article.Title, &article.Text, &article.UserID, &article.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan article: %w", err)
	}
	return &article, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	stmt, args, err := r.builder.Select(articleColumns...).
		From("iyffa.articles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select article sql: %w", err)
	}

	return scanArticle(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *ArticleRepository) list(ctx context.Context, limit int) ([]domain.Article, error) {
	query := r.builder.Select(articleColumns...).
		From("iyffa.articles").
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list articles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}

	return articles, rows.Err()
}

func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	return r.list(ctx, 0)
}

func (r *ArticleRepository) ListRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	return r.list(ctx, limit)
}

func (r *ArticleRepository) Update(ctx context.Context, article domain.Article) error {
	stmt, args, err := r.builder.Update("iyffa.articles").
		Set("title", article.Title).
		Set("text", article.Text).
		Where(squirrel.Eq{"id": article.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update article sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("iyffa.articles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete article sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").From("iyffa.articles").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count articles sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}

	return count, nil
}
