package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/logger"
)

// ArticleInput carries article fields from handlers.
type ArticleInput struct {
	Title string
	Text  string
}

// ArticleService manages news articles.
type ArticleService struct {
	articles port.ArticleRepository
	now      func() time.Time
}

func NewArticleService(articles port.ArticleRepository) *ArticleService {
	return &ArticleService{articles: articles, now: time.Now}
}

func (s *ArticleService) List(ctx context.Context) ([]domain.Article, error) {
	return s.articles.List(ctx)
}

func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id)
}

func (s *ArticleService) Create(ctx context.Context, actor domain.Account, input ArticleInput) (*domain.Article, error) {
	if err := Authorize(actor, ResourceArticle, ActionCreate, actor.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("%w: title and text are required", ErrValidation)
	}

	article := domain.Article{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Text:      input.Text,
		UserID:    actor.ID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}

	return &article, nil
}

func (s *ArticleService) Update(ctx context.Context, actor domain.Account, id string, input ArticleInput) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ResourceArticle, ActionUpdate, article.UserID); err != nil {
		return nil, err
	}

	if input.Title != "" {
		article.Title = input.Title
	}
	if input.Text != "" {
		article.Text = input.Text
	}

	if err := s.articles.Update(ctx, *article); err != nil {
		return nil, err
	}

	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, actor domain.Account, id string) error {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ResourceArticle, ActionDelete, article.UserID); err != nil {
		return err
	}

	return s.articles.Delete(ctx, id)
}

// ProjectInput carries project fields from handlers.
type ProjectInput struct {
	Title       string
	Description string
	Budget      float64
}

// ProjectService manages member project proposals. New proposals are
// announced to the other active members by email.
type ProjectService struct {
	projects  port.ProjectRepository
	documents port.DocumentRepository
	accounts  port.AccountRepository
	mailer    port.Mailer
	log       *zap.Logger
	now       func() time.Time
}

func NewProjectService(
	projects port.ProjectRepository,
	documents port.DocumentRepository,
	accounts port.AccountRepository,
	mailer port.Mailer,
	log *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects:  projects,
		documents: documents,
		accounts:  accounts,
		mailer:    mailer,
		log:       log,
		now:       time.Now,
	}
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, actor domain.Account, input ProjectInput) (*domain.Project, error) {
	if err := Authorize(actor, ResourceProject, ActionCreate, actor.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Budget < 0 {
		return nil, ErrInvalidAmount
	}

	project := domain.Project{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		UserID:      actor.ID,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, project, actor)

	return &project, nil
}

// notifyMembers announces the proposal to every other active member.
// Mail failures are logged, not propagated: the project is already saved.
func (s *ProjectService) notifyMembers(ctx context.Context, project domain.Project, author domain.Account) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		s.log.Warn("list members for project notice failed", zap.Error(err))
		return
	}

	for _, member := range accounts {
		if !member.Active || member.ID == author.ID {
			continue
		}
		if err := s.mailer.SendProjectNotice(ctx, member.Email, project, author.FullName()); err != nil {
			s.log.Warn("send project notice failed",
				zap.String("email", logger.MaskEmail(member.Email)),
				zap.Error(err),
			)
		}
	}
}

func (s *ProjectService) Update(ctx context.Context, actor domain.Account, id string, input ProjectInput) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ResourceProject, ActionUpdate, project.UserID); err != nil {
		return nil, err
	}

	if input.Title != "" {
		project.Title = input.Title
	}
	if input.Description != "" {
		project.Description = input.Description
	}
	if input.Budget > 0 {
		project.Budget = input.Budget
	}

	if err := s.projects.Update(ctx, *project); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, actor domain.Account, id string) error {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ResourceProject, ActionDelete, project.UserID); err != nil {
		return err
	}

	return s.projects.Delete(ctx, id)
}

// DocumentInput carries document fields from handlers.
type DocumentInput struct {
	URL       string
	ProjectID string
}

// DocumentService manages files attached to projects. Ownership follows
// the parent project.
type DocumentService struct {
	documents port.DocumentRepository
	projects  port.ProjectRepository
	now       func() time.Time
}

func NewDocumentService(documents port.DocumentRepository, projects port.ProjectRepository) *DocumentService {
	return &DocumentService{documents: documents, projects: projects, now: time.Now}
}

func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.documents.List(ctx)
}

func (s *DocumentService) ListByProject(ctx context.Context, projectID string) ([]domain.Document, error) {
	return s.documents.ListByProject(ctx, projectID)
}

func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.documents.GetByID(ctx, id)
}

func (s *DocumentService) Create(ctx context.Context, actor domain.Account, input DocumentInput) (*domain.Document, error) {
	if strings.TrimSpace(input.URL) == "" || strings.TrimSpace(input.ProjectID) == "" {
		return nil, fmt.Errorf("%w: url and project id are required", ErrValidation)
	}

	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ResourceDocument, ActionCreate, project.UserID); err != nil {
		return nil, err
	}

	document := domain.Document{
		ID:        uuid.NewString(),
		URL:       input.URL,
		ProjectID: input.ProjectID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.documents.Create(ctx, document); err != nil {
		return nil, err
	}

	return &document, nil
}

func (s *DocumentService) Update(ctx context.Context, actor domain.Account, id string, input DocumentInput) (*domain.Document, error) {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, document.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ResourceDocument, ActionUpdate, project.UserID); err != nil {
		return nil, err
	}

	if input.URL != "" {
		document.URL = input.URL
	}

	if err := s.documents.Update(ctx, *document); err != nil {
		return nil, err
	}

	return document, nil
}

func (s *DocumentService) Delete(ctx context.Context, actor domain.Account, id string) error {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}

	project, err := s.projects.GetByID(ctx, document.ProjectID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ResourceDocument, ActionDelete, project.UserID); err != nil {
		return err
	}

	return s.documents.Delete(ctx, id)
}

// EventInput carries event fields from handlers.
type EventInput struct {
	Title         string
	Description   string
	StartDatetime time.Time
	EndDatetime   *time.Time
	Location      string
	Price         float64
}

// EventService manages association events.
type EventService struct {
	events port.EventRepository
	images port.ImageRepository
	now    func() time.Time
}

func NewEventService(events port.EventRepository, images port.ImageRepository) *EventService {
	return &EventService{events: events, images: images, now: time.Now}
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *EventService) Create(ctx context.Context, actor domain.Account, input EventInput) (*domain.Event, error) {
	if err := Authorize(actor, ResourceEvent, ActionCreate, actor.ID); err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(input.Title) == "":
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	case input.StartDatetime.IsZero():
		return nil, fmt.Errorf("%w: start datetime is required", ErrValidation)
	case input.EndDatetime != nil && input.EndDatetime.Before(input.StartDatetime):
		return nil, fmt.Errorf("%w: end datetime precedes start", ErrValidation)
	case input.Price < 0:
		return nil, ErrInvalidAmount
	}

	event := domain.Event{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Description:   input.Description,
		StartDatetime: input.StartDatetime,
		EndDatetime:   input.EndDatetime,
		Location:      input.Location,
		Price:         input.Price,
		UserID:        actor.ID,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (s *EventService) Update(ctx context.Context, actor domain.Account, id string, input EventInput) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ResourceEvent, ActionUpdate, event.UserID); err != nil {
		return nil, err
	}

	if input.Title != "" {
		event.Title = input.Title
	}
	if input.Description != "" {
		event.Description = input.Description
	}
	if !input.StartDatetime.IsZero() {
		event.StartDatetime = input.StartDatetime
	}
	if input.EndDatetime != nil {
		if input.EndDatetime.Before(event.StartDatetime) {
			return nil, fmt.Errorf("%w: end datetime precedes start", ErrValidation)
		}
		event.EndDatetime = input.EndDatetime
	}
	if input.Location != "" {
		event.Location = input.Location
	}
	if input.Price >= 0 {
		event.Price = input.Price
	}

	if err := s.events.Update(ctx, *event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) Delete(ctx context.Context, actor domain.Account, id string) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ResourceEvent, ActionDelete, event.UserID); err != nil {
		return err
	}

	return s.events.Delete(ctx, id)
}

// ImageInput carries image fields from handlers.
type ImageInput struct {
	FilePath string
	Position int
	AltText  *string
	EventID  string
}

// ImageService manages event pictures. Deleting an image also removes the
// file under the media root.
type ImageService struct {
	images    port.ImageRepository
	events    port.EventRepository
	mediaRoot string
	log       *zap.Logger
	now       func() time.Time
}

func NewImageService(images port.ImageRepository, events port.EventRepository, mediaRoot string, log *zap.Logger) *ImageService {
	return &ImageService{
		images:    images,
		events:    events,
		mediaRoot: mediaRoot,
		log:       log,
		now:       time.Now,
	}
}

func (s *ImageService) ListByEvent(ctx context.Context, eventID string) ([]domain.Image, error) {
	return s.images.ListByEvent(ctx, eventID)
}

func (s *ImageService) Get(ctx context.Context, id string) (*domain.Image, error) {
	return s.images.GetByID(ctx, id)
}

func (s *ImageService) Create(ctx context.Context, actor domain.Account, input ImageInput) (*domain.Image, error) {
	if strings.TrimSpace(input.FilePath) == "" || strings.TrimSpace(input.EventID) == "" {
		return nil, fmt.Errorf("%w: file path and event id are required", ErrValidation)
	}

	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ResourceImage, ActionCreate, event.UserID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	image := domain.Image{
		ID:        uuid.NewString(),
		FilePath:  input.FilePath,
		Position:  input.Position,
		AltText:   input.AltText,
		EventID:   input.EventID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.images.Create(ctx, image); err != nil {
		return nil, err
	}

	return &image, nil
}

func (s *ImageService) Update(ctx context.Context, actor domain.Account, id string, input ImageInput) (*domain.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, image.EventID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ResourceImage, ActionUpdate, event.UserID); err != nil {
		return nil, err
	}

	if input.Position >= 0 {
		image.Position = input.Position
	}
	if input.AltText != nil {
		image.AltText = input.AltText
	}
	image.UpdatedAt = s.now().UTC()

	if err := s.images.Update(ctx, *image); err != nil {
		return nil, err
	}

	return image, nil
}

func (s *ImageService) Delete(ctx context.Context, actor domain.Account, id string) error {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		return err
	}

	event, err := s.events.GetByID(ctx, image.EventID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ResourceImage, ActionDelete, event.UserID); err != nil {
		return err
	}

	if err := s.images.Delete(ctx, id); err != nil {
		return err
	}

	// The row is the source of truth; a leftover file is only wasted disk.
	path := filepath.Join(s.mediaRoot, filepath.Clean("/"+image.FilePath))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("remove image file failed",
			zap.String("path", path),
			zap.Error(err),
		)
	}

	return nil
}
