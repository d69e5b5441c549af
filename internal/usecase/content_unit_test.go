package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

func TestArticleCreateAndOwnership(t *testing.T) {
	author := memberAccount("member password 5")
	other := memberAccount("member password 5")
	other.ID = uuid.NewString()
	admin := adminAccount()

	articles := newArticleRepoStub()
	svc := NewArticleService(articles)

	created, err := svc.Create(context.Background(), author, ArticleInput{Title: "Assembly report", Text: "Minutes of the general assembly."})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UserID != author.ID {
		t.Fatalf("expected author %s, got %s", author.ID, created.UserID)
	}

	if _, err := svc.Create(context.Background(), author, ArticleInput{Title: "", Text: "body"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing title: expected ErrValidation, got %v", err)
	}

	// Only the author or an admin may change it.
	if _, err := svc.Update(context.Background(), other, created.ID, ArticleInput{Title: "Hijacked"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), author, created.ID, ArticleInput{Title: "Assembly report, revised"}); err != nil {
		t.Fatalf("author update: %v", err)
	}
	if _, err := svc.Update(context.Background(), admin, created.ID, ArticleInput{Text: "Corrected minutes."}); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	if err := svc.Delete(context.Background(), other, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), author, created.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestProjectCreateNotifiesOtherMembers(t *testing.T) {
	author := memberAccount("member password 5")
	peer := memberAccount("member password 5")
	peer.ID = uuid.NewString()
	peer.Email = "peer@example.org"
	inactive := memberAccount("member password 5")
	inactive.ID = uuid.NewString()
	inactive.Email = "inactive@example.org"
	inactive.Active = false

	projects := newProjectRepoStub()
	documents := newDocumentRepoStub()
	accounts := newAccountRepoStub(author, peer, inactive)
	mailer := newMailerStub()
	svc := NewProjectService(projects, documents, accounts, mailer, testLogger())

	created, err := svc.Create(context.Background(), author, ProjectInput{
		Title:       "Community garden",
		Description: "A shared plot behind the community center.",
		Budget:      1200,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UserID != author.ID {
		t.Fatalf("expected owner %s, got %s", author.ID, created.UserID)
	}

	// Only the other active member is notified, not the author and not
	// the inactive account.
	if mailer.count("project_notice") != 1 {
		t.Fatalf("expected one project notice, got %d", mailer.count("project_notice"))
	}
	if mailer.sent[0].to != peer.Email {
		t.Fatalf("expected notice to %s, got %s", peer.Email, mailer.sent[0].to)
	}
}

func TestProjectValidation(t *testing.T) {
	author := memberAccount("member password 5")
	svc := NewProjectService(newProjectRepoStub(), newDocumentRepoStub(), newAccountRepoStub(author), newMailerStub(), testLogger())

	if _, err := svc.Create(context.Background(), author, ProjectInput{Title: ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing title: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Create(context.Background(), author, ProjectInput{Title: "x", Budget: -5}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative budget: expected ErrInvalidAmount, got %v", err)
	}
}

func TestDocumentOwnershipFollowsProject(t *testing.T) {
	owner := memberAccount("member password 5")
	other := memberAccount("member password 5")
	other.ID = uuid.NewString()

	projects := newProjectRepoStub()
	documents := newDocumentRepoStub()
	svc := NewDocumentService(documents, projects)

	project := domain.Project{ID: uuid.NewString(), Title: "Community garden", UserID: owner.ID, CreatedAt: time.Now().UTC()}
	if err := projects.Create(context.Background(), project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	if _, err := svc.Create(context.Background(), other, DocumentInput{URL: "https://files.example.org/plan.pdf", ProjectID: project.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign create: expected ErrForbidden, got %v", err)
	}

	created, err := svc.Create(context.Background(), owner, DocumentInput{URL: "https://files.example.org/plan.pdf", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("owner create: %v", err)
	}

	listed, err := svc.ListByProject(context.Background(), project.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one document for project, got %d (%v)", len(listed), err)
	}

	if _, err := svc.Update(context.Background(), other, created.ID, DocumentInput{URL: "https://evil.example.org"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestDocumentCreateRequiresExistingProject(t *testing.T) {
	owner := memberAccount("member password 5")
	svc := NewDocumentService(newDocumentRepoStub(), newProjectRepoStub())

	if _, err := svc.Create(context.Background(), owner, DocumentInput{URL: "https://files.example.org/plan.pdf", ProjectID: uuid.NewString()}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing project, got %v", err)
	}
	if _, err := svc.Create(context.Background(), owner, DocumentInput{URL: "", ProjectID: ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty input, got %v", err)
	}
}

func TestEventCreateValidation(t *testing.T) {
	organizer := memberAccount("member password 5")
	svc := NewEventService(newEventRepoStub(), newImageRepoStub())
	ctx := context.Background()
	start := time.Now().Add(48 * time.Hour)
	before := start.Add(-time.Hour)

	if _, err := svc.Create(ctx, organizer, EventInput{StartDatetime: start}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing title: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Create(ctx, organizer, EventInput{Title: "Summer picnic"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing start: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Create(ctx, organizer, EventInput{Title: "Summer picnic", StartDatetime: start, EndDatetime: &before}); !errors.Is(err, ErrValidation) {
		t.Fatalf("end before start: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Create(ctx, organizer, EventInput{Title: "Summer picnic", StartDatetime: start, Price: -1}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative price: expected ErrInvalidAmount, got %v", err)
	}

	created, err := svc.Create(ctx, organizer, EventInput{
		Title:         "Summer picnic",
		Description:   "Annual picnic at the lake.",
		StartDatetime: start,
		Location:      "Lake Geneva shore",
		Price:         5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UserID != organizer.ID {
		t.Fatalf("expected organizer %s, got %s", organizer.ID, created.UserID)
	}
}

func TestEventUpdateOwnership(t *testing.T) {
	organizer := memberAccount("member password 5")
	other := memberAccount("member password 5")
	other.ID = uuid.NewString()

	events := newEventRepoStub()
	svc := NewEventService(events, newImageRepoStub())

	start := time.Now().Add(48 * time.Hour)
	event := domain.Event{ID: uuid.NewString(), Title: "Summer picnic", StartDatetime: start, UserID: organizer.ID}
	if err := events.Create(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	if _, err := svc.Update(context.Background(), other, event.ID, EventInput{Title: "Hijacked"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), organizer, event.ID, EventInput{Location: "Parc des Bastions"}); err != nil {
		t.Fatalf("organizer update: %v", err)
	}
}

func TestImageLifecycle(t *testing.T) {
	organizer := memberAccount("member password 5")
	other := memberAccount("member password 5")
	other.ID = uuid.NewString()

	events := newEventRepoStub()
	images := newImageRepoStub()
	svc := NewImageService(images, events, t.TempDir(), testLogger())

	event := domain.Event{ID: uuid.NewString(), Title: "Summer picnic", StartDatetime: time.Now().Add(48 * time.Hour), UserID: organizer.ID}
	if err := events.Create(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	if _, err := svc.Create(context.Background(), other, ImageInput{FilePath: "events/picnic.jpg", EventID: event.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign create: expected ErrForbidden, got %v", err)
	}

	created, err := svc.Create(context.Background(), organizer, ImageInput{FilePath: "events/picnic.jpg", Position: 1, EventID: event.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	alt := "Members at the lake"
	updated, err := svc.Update(context.Background(), organizer, created.ID, ImageInput{Position: 2, AltText: &alt})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Position != 2 || updated.AltText == nil || *updated.AltText != alt {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	listed, err := svc.ListByEvent(context.Background(), event.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one image, got %d (%v)", len(listed), err)
	}

	if err := svc.Delete(context.Background(), organizer, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
