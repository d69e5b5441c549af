package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// DashboardHandler exposes the admin and member dashboard aggregates.
type DashboardHandler struct {
	dashboards *usecase.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboards *usecase.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// RegisterRoutes binds the dashboard routes. The group must already require auth.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/admin", h.admin)
	r.GET("/member", h.member)
}

func (h *DashboardHandler) admin(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	dashboard, err := h.dashboards.Admin(c.Request.Context(), actor)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AdminDashboardResponse{
		Members:        dashboard.Members,
		Articles:       dashboard.Articles,
		Projects:       dashboard.Projects,
		Events:         dashboard.Events,
		UpcomingEvents: dashboard.UpcomingEvents,
		DonationTotal:  dashboard.DonationTotal,
		RecentArticles: newArticleResponses(dashboard.RecentArticles),
		RecentProjects: newProjectResponses(dashboard.RecentProjects),
		RecentEvents:   newEventResponses(dashboard.RecentEvents),
	})
}

func (h *DashboardHandler) member(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	dashboard, err := h.dashboards.Member(c.Request.Context(), actor)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MemberDashboardResponse{
		PaymentCount:     dashboard.PaymentCount,
		MembershipActive: dashboard.MembershipActive,
		RecentPayments:   newPaymentResponses(dashboard.RecentPayments),
	})
}
