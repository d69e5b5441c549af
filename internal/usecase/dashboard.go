package usecase

import (
	"context"
	"fmt"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
)

// AdminDashboard aggregates association-wide totals for administrators.
type AdminDashboard struct {
	Members        int
	Articles       int
	Projects       int
	Events         int
	UpcomingEvents int
	DonationTotal  float64
	RecentArticles []domain.Article
	RecentProjects []domain.Project
	RecentEvents   []domain.Event
}

// MemberDashboard aggregates a member's own activity.
type MemberDashboard struct {
	PaymentCount     int
	MembershipActive bool
	RecentPayments   []domain.Payment
}

const recentLimit = 5

// DashboardService assembles the numbers behind the admin and member
// dashboards.
type DashboardService struct {
	accounts port.AccountRepository
	articles port.ArticleRepository
	projects port.ProjectRepository
	events   port.EventRepository
	payments port.PaymentRepository
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(
	accounts port.AccountRepository,
	articles port.ArticleRepository,
	projects port.ProjectRepository,
	events port.EventRepository,
	payments port.PaymentRepository,
) *DashboardService {
	return &DashboardService{
		accounts: accounts,
		articles: articles,
		projects: projects,
		events:   events,
		payments: payments,
	}
}

// Admin returns association-wide statistics.
func (s *DashboardService) Admin(ctx context.Context, actor domain.Account) (*AdminDashboard, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	members, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	articleCount, err := s.articles.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	projectCount, err := s.projects.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	eventCount, err := s.events.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	upcoming, err := s.events.CountUpcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}

	donations, err := s.payments.SumSucceeded(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum donations: %w", err)
	}

	recentArticles, err := s.articles.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}

	recentProjects, err := s.projects.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent projects: %w", err)
	}

	recentEvents, err := s.events.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}

	return &AdminDashboard{
		Members:        members,
		Articles:       articleCount,
		Projects:       projectCount,
		Events:         eventCount,
		UpcomingEvents: upcoming,
		DonationTotal:  donations,
		RecentArticles: recentArticles,
		RecentProjects: recentProjects,
		RecentEvents:   recentEvents,
	}, nil
}

// Member returns the caller's own statistics.
func (s *DashboardService) Member(ctx context.Context, actor domain.Account) (*MemberDashboard, error) {
	count, err := s.payments.CountByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}

	active, err := s.payments.HasSucceededMembershipPayment(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("check membership payments: %w", err)
	}

	payments, err := s.payments.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	if len(payments) > recentLimit {
		payments = payments[:recentLimit]
	}

	return &MemberDashboard{
		PaymentCount:     count,
		MembershipActive: active,
		RecentPayments:   payments,
	}, nil
}
