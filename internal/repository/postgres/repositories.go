package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Accounts    *AccountRepository
	Articles    *ArticleRepository
	Projects    *ProjectRepository
	Documents   *DocumentRepository
	Events      *EventRepository
	Images      *ImageRepository
	Cotisations *CotisationRepository
	Payments    *PaymentRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Accounts:    NewAccountRepository(pool),
		Articles:    NewArticleRepository(pool),
		Projects:    NewProjectRepository(pool),
		Documents:   NewDocumentRepository(pool),
		Events:      NewEventRepository(pool),
		Images:      NewImageRepository(pool),
		Cotisations: NewCotisationRepository(pool),
		Payments:    NewPaymentRepository(pool),
	}
}
