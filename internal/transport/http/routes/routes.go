package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/handlers"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	TwoFactor    *usecase.TwoFactorService
	Registration *usecase.RegistrationService
	Passwords    *usecase.PasswordService
	Users        *usecase.UserService
	Articles     *usecase.ArticleService
	Projects     *usecase.ProjectService
	Documents    *usecase.DocumentService
	Events       *usecase.EventService
	Images       *usecase.ImageService
	Cotisations  *usecase.CotisationService
	Payments     *usecase.PaymentService
	Dashboards   *usecase.DashboardService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	HTTPMetrics *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Logger(deps.Logger))
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Services.Auth)
	requireAdmin := middleware.RequireAdmin()
	optionalAuth := middleware.OptionalAuth(deps.Services.Auth)

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth)
	twoFactorHandler := handlers.NewTwoFactorHandler(deps.Services.TwoFactor)
	registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration)
	passwordHandler := handlers.NewPasswordHandler(deps.Services.Passwords)
	userHandler := handlers.NewUserHandler(deps.Services.Users)
	articleHandler := handlers.NewArticleHandler(deps.Services.Articles)
	projectHandler := handlers.NewProjectHandler(deps.Services.Projects)
	documentHandler := handlers.NewDocumentHandler(deps.Services.Documents)
	eventHandler := handlers.NewEventHandler(deps.Services.Events, deps.Services.Images)
	imageHandler := handlers.NewImageHandler(deps.Services.Images)
	cotisationHandler := handlers.NewCotisationHandler(deps.Services.Cotisations)
	paymentHandler := handlers.NewPaymentHandler(deps.Services.Payments)
	webhookHandler := handlers.NewWebhookHandler(deps.Services.Payments, deps.Logger)
	dashboardHandler := handlers.NewDashboardHandler(deps.Services.Dashboards)

	api := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(api.Group("/auth"))
		api.POST("/register", registrationHandler.Register)
		passwordHandler.RegisterRoutes(api.Group("/password"))

		articleHandler.RegisterPublicRoutes(api.Group("/articles"))
		projectHandler.RegisterPublicRoutes(api.Group("/projects"))
		eventHandler.RegisterPublicRoutes(api.Group("/events"))

		checkout := api.Group("/payments", optionalAuth)
		paymentHandler.RegisterCheckoutRoutes(checkout)

		api.POST("/webhooks/stripe", webhookHandler.HandleStripe)

		authed := api.Group("")
		authed.Use(requireAuth)
		{
			articleHandler.RegisterRoutes(authed.Group("/articles"))
			projectHandler.RegisterRoutes(authed.Group("/projects"))
			documentHandler.RegisterRoutes(authed.Group("/documents"))
			eventHandler.RegisterRoutes(authed.Group("/events"))
			imageHandler.RegisterRoutes(authed.Group("/images"))
			cotisationHandler.RegisterRoutes(authed.Group("/cotisations"))
			paymentHandler.RegisterRoutes(authed.Group("/payments"))
			twoFactorHandler.RegisterRoutes(authed.Group("/2fa"))
			userHandler.RegisterRoutes(authed.Group("/users"))
			dashboardHandler.RegisterRoutes(authed.Group("/dashboard"))

			authed.POST("/users/:id/approve", requireAdmin, registrationHandler.Approve)
		}
	}

	return r
}
