package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/api/handlers"
	"github.com/digitalorder/accounts/internal/api/middleware"
	"github.com/digitalorder/accounts/internal/auth"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Inspector      *asynq.Inspector // queue depth for readiness, nil without Redis
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AccountService *account.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis, cfg.Inspector)
	authHandler := handlers.NewAuthHandler(cfg.AccountService, cfg.JWTService)
	profileHandler := handlers.NewProfileHandler(cfg.AccountService)
	verificationHandler := handlers.NewVerificationHandler(cfg.AccountService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Post("/token", authHandler.TokenObtain)
		r.Post("/token/refresh", authHandler.TokenRefresh)
		r.Post("/token/verify", authHandler.TokenVerify)

		r.Post("/verify-email/request", verificationHandler.RequestEmailVerification)
		r.Get("/verify-email/confirm", verificationHandler.ConfirmEmailVerification)
		r.Post("/verify-email/confirm", verificationHandler.ConfirmEmailVerification)

		r.Post("/password-reset/request", verificationHandler.RequestPasswordReset)
		r.Post("/password-reset/confirm/{token}", verificationHandler.ConfirmPasswordReset)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)
			r.Post("/change-password", profileHandler.ChangePassword)
		})
	})

	// Catch-all
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})

	return &Router{r}
}
