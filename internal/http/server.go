// Package http assembles the gateway HTTP server: the gated forecast routes
// with their middleware chains, the administrative token routes and the
// health endpoints.
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

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	authHTTP "github.com/cuacalab/forecast-api/internal/auth/http"
	authUseCase "github.com/cuacalab/forecast-api/internal/auth/usecase"
	"github.com/cuacalab/forecast-api/internal/config"
	forecastHTTP "github.com/cuacalab/forecast-api/internal/forecast/http"
	"github.com/cuacalab/forecast-api/internal/httputil"
	"github.com/cuacalab/forecast-api/internal/metrics"
	"github.com/cuacalab/forecast-api/internal/ratelimit"
)

// Server is the main API server. Every gated forecast route runs the same
// pipeline: token authorization, rate limiting, audit logging, then the
// handler.
type Server struct {
	config *config.Config
	db     *sql.DB
	logger *slog.Logger
	router *gin.Engine
	server *http.Server

	authorizer      authUseCase.Authorizer
	limiter         ratelimit.Limiter
	auditLogUseCase authUseCase.AuditLogUseCase
	writer          *httputil.Writer
	tokenHandler    *authHTTP.TokenHandler
	forecastHandler *forecastHTTP.ForecastHandler
	metricsProvider *metrics.Provider
}

// NewServer creates the API server. The metrics provider may be nil when
// metrics collection is disabled.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	authorizer authUseCase.Authorizer,
	limiter ratelimit.Limiter,
	auditLogUseCase authUseCase.AuditLogUseCase,
	writer *httputil.Writer,
	tokenHandler *authHTTP.TokenHandler,
	forecastHandler *forecastHTTP.ForecastHandler,
	metricsProvider *metrics.Provider,
) *Server {
	return &Server{
		config:          cfg,
		db:              db,
		logger:          logger,
		authorizer:      authorizer,
		limiter:         limiter,
		auditLogUseCase: auditLogUseCase,
		writer:          writer,
		tokenHandler:    tokenHandler,
		forecastHandler: forecastHandler,
		metricsProvider: metricsProvider,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with all middleware and routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled,
		s.config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(),
			s.config.MetricsNamespace,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Administrative token routes are unauthenticated and therefore IP rate
	// limited instead of token rate limited.
	tokens := v1.Group("/tokens")
	if s.config.RateLimitTokenEnabled {
		tokens.Use(authHTTP.TokenRateLimitMiddleware(
			s.config.RateLimitTokenRequestsPerSec,
			s.config.RateLimitTokenBurst,
			s.logger,
		))
	}
	tokens.POST("", s.tokenHandler.IssueTokenHandler)
	tokens.POST("/activate", s.tokenHandler.ActivateTokenHandler)

	// Gated forecast routes, one middleware chain per capability. The audit
	// trail itself has no HTTP surface; it is read through the CLI.
	v1.GET("/tenday/current", s.gated(
		authDomain.CapabilityTendayCurrent, s.forecastHandler.TendayCurrentHandler)...)
	v1.GET("/tenday/date", s.gated(
		authDomain.CapabilityTendayDate, s.forecastHandler.TendayByDateHandler)...)
	v1.GET("/ceram", s.gated(
		authDomain.CapabilityCeram, s.forecastHandler.CeramHandler)...)
	v1.GET("/province", s.gated(
		authDomain.CapabilityProvince, s.forecastHandler.ProvinceHandler)...)
	v1.GET("/region", s.gated(
		authDomain.CapabilityRegion, s.forecastHandler.RegionHandler)...)

	return router
}

// gated builds the middleware chain for one capability: authorization, rate
// limiting when enabled, audit logging, then the handler.
func (s *Server) gated(
	id authDomain.CapabilityID,
	handler gin.HandlerFunc,
) []gin.HandlerFunc {
	capability, _ := authDomain.DefinitionOf(id)

	chain := []gin.HandlerFunc{
		authHTTP.TokenAuthMiddleware(s.authorizer, capability, s.writer, s.logger),
	}

	if s.config.RateLimitEnabled {
		policy := ratelimit.Policy{
			BurstLimit:  s.config.RateLimitBurst,
			BurstWindow: s.config.RateLimitBurstWindow,
			QuotaLimit:  s.config.RateLimitQuota,
			QuotaWindow: s.config.RateLimitQuotaWindow,
		}
		chain = append(chain, authHTTP.RateLimitMiddleware(
			s.limiter, capability, policy, s.writer, s.logger))
	}

	chain = append(chain,
		authHTTP.AuditLogMiddleware(s.auditLogUseCase, capability),
		handler,
	)

	return chain
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can actually serve traffic,
// checking the database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. Blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.router = s.SetupRouter()
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
