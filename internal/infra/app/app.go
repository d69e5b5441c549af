package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/database"
	kafkainfra "github.com/Gachet-A/IYFFA-Website-Back/internal/infra/kafka"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/logger"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/mail"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/pdf"
	redisinfra "github.com/Gachet-A/IYFFA-Website-Back/internal/infra/redis"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
	stripeinfra "github.com/Gachet-A/IYFFA-Website-Back/internal/infra/stripe"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/telemetry"
	postgresrepo "github.com/Gachet-A/IYFFA-Website-Back/internal/repository/postgres"
	redisrepo "github.com/Gachet-A/IYFFA-Website-Back/internal/repository/redis"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/routes"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics, err := telemetry.Attach(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	codeStore := redisrepo.NewPendingCodeRepository(redisClient.Client(), cfg.Redis.CodePrefix)
	denylist := redisrepo.NewTokenDenylistRepository(redisClient.Client(), cfg.Redis.DenyPrefix)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RatePrefix,
		TTL:       rateLimitWindow * 2,
	})

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	mailer, err := mail.NewMailer(cfg.SMTP, log)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("init mailer: %w", err)
	}

	paymentProvider, err := stripeinfra.NewProvider(cfg.Stripe.SecretKey, log)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("init payment provider: %w", err)
	}

	webhookVerifier, err := stripeinfra.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("init webhook verifier: %w", err)
	}

	receiptRenderer := pdf.NewReceiptRenderer(cfg.Media.Root, cfg.Association.Name, cfg.Association.Address, cfg.Association.Contact)

	passwordValidator := security.DefaultPasswordValidator()

	authService := usecase.NewAuthService(cfg, repos.Accounts, codeStore, denylist, rateLimitStore, tokens, mailer, log)
	twoFactorService := usecase.NewTwoFactorService(cfg, repos.Accounts, codeStore, mailer, log)
	registrationService := usecase.NewRegistrationService(cfg, repos.Accounts, codeStore, mailer, eventPublisher, log)
	passwordService := usecase.NewPasswordService(cfg, repos.Accounts, codeStore, rateLimitStore, passwordValidator, mailer, eventPublisher, log)
	userService := usecase.NewUserService(repos.Accounts, log)
	articleService := usecase.NewArticleService(repos.Articles)
	projectService := usecase.NewProjectService(repos.Projects, repos.Documents, repos.Accounts, mailer, log)
	documentService := usecase.NewDocumentService(repos.Documents, repos.Projects)
	eventService := usecase.NewEventService(repos.Events, repos.Images)
	imageService := usecase.NewImageService(repos.Images, repos.Events, cfg.Media.Root, log)
	cotisationService := usecase.NewCotisationService(repos.Cotisations, repos.Payments, repos.Accounts)
	paymentService := usecase.NewPaymentService(cfg, repos.Payments, repos.Cotisations, repos.Accounts, paymentProvider, webhookVerifier, receiptRenderer, mailer, eventPublisher, log)
	paymentService.WithRecordedHook(metrics.PaymentRecorded)
	dashboardService := usecase.NewDashboardService(repos.Accounts, repos.Articles, repos.Projects, repos.Events, repos.Payments)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		HTTPMetrics: httpMetrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:         authService,
			TwoFactor:    twoFactorService,
			Registration: registrationService,
			Passwords:    passwordService,
			Users:        userService,
			Articles:     articleService,
			Projects:     projectService,
			Documents:    documentService,
			Events:       eventService,
			Images:       imageService,
			Cotisations:  cotisationService,
			Payments:     paymentService,
			Dashboards:   dashboardService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting association API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
