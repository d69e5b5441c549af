package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
	"go.uber.org/zap"
)

type databaseCheckerStub struct{ err error }

func (c databaseCheckerStub) Ping(context.Context) error { return c.err }

type cacheCheckerStub struct{ err error }

func (c cacheCheckerStub) HealthCheck(context.Context) error { return c.err }

func testEngine(t *testing.T, database DatabaseChecker, cache CacheChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		App: config.AppSettings{Name: "iyffa-backend-test", Env: "test"},
		JWT: config.JWTSettings{
			Secret:          "route-test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
		},
		CORS: config.CORSSettings{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	log := zap.NewNop()

	// Repositories are nil: these tests only exercise paths that stop at
	// the routing or middleware layer.
	services := ServiceSet{
		Auth:         usecase.NewAuthService(cfg, nil, nil, nil, nil, tokens, nil, log),
		TwoFactor:    usecase.NewTwoFactorService(cfg, nil, nil, nil, log),
		Registration: usecase.NewRegistrationService(cfg, nil, nil, nil, nil, log),
		Passwords:    usecase.NewPasswordService(cfg, nil, nil, nil, nil, nil, nil, log),
		Users:        usecase.NewUserService(nil, log),
		Articles:     usecase.NewArticleService(nil),
		Projects:     usecase.NewProjectService(nil, nil, nil, nil, log),
		Documents:    usecase.NewDocumentService(nil, nil),
		Events:       usecase.NewEventService(nil, nil),
		Images:       usecase.NewImageService(nil, nil, t.TempDir(), log),
		Cotisations:  usecase.NewCotisationService(nil, nil, nil),
		Payments:     usecase.NewPaymentService(cfg, nil, nil, nil, nil, nil, nil, nil, nil, log),
		Dashboards:   usecase.NewDashboardService(nil, nil, nil, nil, nil),
	}

	return Register(Dependencies{
		Config:   cfg,
		Logger:   log,
		Services: services,
		Database: database,
		Cache:    cache,
	})
}

func TestHealthEndpoint(t *testing.T) {
	engine := testEngine(t, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", body["status"])
	}
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	engine := testEngine(t, databaseCheckerStub{}, cacheCheckerStub{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestReadinessHealthy(t *testing.T) {
	engine := testEngine(t, databaseCheckerStub{}, cacheCheckerStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	engine := testEngine(t, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	engine := testEngine(t, nil, nil)

	for _, tc := range []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, rec.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", tc.name, err)
		}
		if body["code"] != "authentication_error" {
			t.Fatalf("%s: expected authentication_error code, got %v", tc.name, body["code"])
		}
	}
}

func TestWebhookRequiresSignatureHeader(t *testing.T) {
	engine := testEngine(t, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without signature header, got %d", rec.Code)
	}
}
