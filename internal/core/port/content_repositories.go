package port

import (
	"context"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

// ArticleRepository exposes persistence behavior for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Article, error)
	Update(ctx context.Context, article domain.Article) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ProjectRepository exposes persistence behavior for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Project, error)
	Update(ctx context.Context, project domain.Project) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// DocumentRepository exposes persistence behavior for project documents.
type DocumentRepository interface {
	Create(ctx context.Context, document domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Document, error)
	Update(ctx context.Context, document domain.Document) error
	Delete(ctx context.Context, id string) error
}

// EventRepository exposes persistence behavior for events.
type EventRepository interface {
	Create(ctx context.Context, event domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Event, error)
	CountUpcoming(ctx context.Context) (int, error)
	Update(ctx context.Context, event domain.Event) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ImageRepository exposes persistence behavior for event images.
type ImageRepository interface {
	Create(ctx context.Context, image domain.Image) error
	GetByID(ctx context.Context, id string) (*domain.Image, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Image, error)
	Update(ctx context.Context, image domain.Image) error
	Delete(ctx context.Context, id string) error
}
