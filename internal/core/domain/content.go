package domain

import "time"

// Article is a news post published by a member.
type Article struct {
	ID        string
	Title     string
	Text      string
	UserID    string
	CreatedAt time.Time
}

// Project is a member proposal with a requested budget.
type Project struct {
	ID          string
	Title       string
	Description string
	Budget      float64
	UserID      string
	CreatedAt   time.Time
}

// Document points at a file attached to a project.
type Document struct {
	ID        string
	URL       string
	ProjectID string
	CreatedAt time.Time
}

// Event is an association event with location and entry price.
type Event struct {
	ID            string
	Title         string
	Description   string
	StartDatetime time.Time
	EndDatetime   *time.Time
	Location      string
	Price         float64
	UserID        string
	CreatedAt     time.Time
}

// Image is a picture attached to an event, ordered by Position.
type Image struct {
	ID        string
	FilePath  string
	Position  int
	AltText   *string
	EventID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
