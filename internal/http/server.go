// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/cardvault/internal/auth/http"
	authUseCase "github.com/allisson/cardvault/internal/auth/usecase"
	cardHTTP "github.com/allisson/cardvault/internal/card/http"
	"github.com/allisson/cardvault/internal/config"
	"github.com/allisson/cardvault/internal/metrics"
	userHTTP "github.com/allisson/cardvault/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// Server is the public API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// RouterDeps groups the handlers and collaborators SetupRouter mounts.
type RouterDeps struct {
	AuthUseCase     authUseCase.AuthUseCase
	AuthHandler     *authHTTP.AuthHandler
	UserHandler     *userHTTP.UserHandler
	CardHandler     *cardHTTP.CardHandler
	TransferHandler *cardHTTP.TransferHandler
	// MetricsProvider is nil when metrics are disabled.
	MetricsProvider *metrics.Provider
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin engine with every API route. ctx bounds the
// lifetime of the rate limiter cleanup goroutines.
func (s *Server) SetupRouter(ctx context.Context, cfg *config.Config, deps RouterDeps) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}
	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	authRoutes := v1.Group("/auth")
	if cfg.RateLimitAuthEnabled {
		authRoutes.Use(authHTTP.IPRateLimitMiddleware(
			ctx,
			cfg.RateLimitAuthRequestsPerSec,
			cfg.RateLimitAuthBurst,
			s.logger,
		))
	}
	authRoutes.POST("/signup", deps.AuthHandler.SignUpHandler)
	authRoutes.POST("/signin", deps.AuthHandler.SignInHandler)

	protected := v1.Group("")
	protected.Use(authHTTP.AuthenticationMiddleware(deps.AuthUseCase, s.logger))
	if cfg.RateLimitEnabled {
		protected.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	cards := protected.Group("/cards")
	cards.POST("", deps.CardHandler.CreateHandler)
	cards.GET("", deps.CardHandler.ListHandler)
	cards.GET("/active", deps.CardHandler.ListActiveHandler)
	cards.GET("/:id", deps.CardHandler.GetHandler)
	cards.POST("/:id/block", deps.CardHandler.BlockHandler)

	transfers := protected.Group("/transfers")
	transfers.POST("", deps.TransferHandler.CreateHandler)
	transfers.GET("", deps.TransferHandler.ListHandler)

	admin := protected.Group("/admin")
	admin.Use(authHTTP.RequireAdmin(s.logger))

	adminCards := admin.Group("/cards")
	adminCards.POST("", deps.CardHandler.AdminCreateHandler)
	adminCards.GET("", deps.CardHandler.AdminListHandler)
	adminCards.GET("/:id", deps.CardHandler.AdminGetHandler)
	adminCards.POST("/:id/activate", deps.CardHandler.ActivateHandler)
	adminCards.POST("/:id/block", deps.CardHandler.BlockHandler)
	adminCards.DELETE("/:id", deps.CardHandler.DeleteHandler)

	adminUsers := admin.Group("/users")
	adminUsers.GET("", deps.UserHandler.ListHandler)
	adminUsers.GET("/:id", deps.UserHandler.GetHandler)
	adminUsers.POST("/:id/block", deps.UserHandler.BlockHandler)
	adminUsers.POST("/:id/unblock", deps.UserHandler.UnblockHandler)
	adminUsers.DELETE("/:id", deps.UserHandler.DeleteHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves requests until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only while the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": database},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": database},
	})
}
