// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	authHTTP "github.com/cuacalab/forecast-api/internal/auth/http"
	authService "github.com/cuacalab/forecast-api/internal/auth/service"
	authUseCase "github.com/cuacalab/forecast-api/internal/auth/usecase"
	"github.com/cuacalab/forecast-api/internal/cache"
	"github.com/cuacalab/forecast-api/internal/config"
	"github.com/cuacalab/forecast-api/internal/database"
	forecastHTTP "github.com/cuacalab/forecast-api/internal/forecast/http"
	forecastUseCase "github.com/cuacalab/forecast-api/internal/forecast/usecase"
	"github.com/cuacalab/forecast-api/internal/http"
	"github.com/cuacalab/forecast-api/internal/httputil"
	"github.com/cuacalab/forecast-api/internal/metrics"
	"github.com/cuacalab/forecast-api/internal/ratelimit"
	"github.com/cuacalab/forecast-api/internal/redis"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	db          *sql.DB
	redisClient *goredis.Client

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	gatewayMetrics  *metrics.GatewayMetrics

	// Shared response writer
	writer *httputil.Writer

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Auth components
	tokenService    authService.TokenService
	tokenRepo       authUseCase.TokenRepository
	capabilityRepo  authUseCase.CapabilityRepository
	auditLogRepo    authUseCase.AuditLogRepository
	authorizer      authUseCase.Authorizer
	tokenUseCase    authUseCase.TokenUseCase
	auditLogUseCase authUseCase.AuditLogUseCase
	limiter         ratelimit.Limiter
	tokenHandler    *authHTTP.TokenHandler

	// Forecast components
	forecastRepo    forecastUseCase.ForecastRepository
	responseCache   *cache.Cache
	forecastUseCase forecastUseCase.ForecastUseCase
	forecastHandler *forecastHTTP.ForecastHandler

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	redisClientInit     sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	gatewayMetricsInit  sync.Once
	writerInit          sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once

	tokenServiceInit    sync.Once
	tokenRepoInit       sync.Once
	capabilityRepoInit  sync.Once
	auditLogRepoInit    sync.Once
	authorizerInit      sync.Once
	tokenUseCaseInit    sync.Once
	auditLogUseCaseInit sync.Once
	limiterInit         sync.Once
	tokenHandlerInit    sync.Once
	forecastRepoInit    sync.Once
	responseCacheInit   sync.Once
	forecastUseCaseInit sync.Once
	forecastHandlerInit sync.Once

	initErrors map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// RedisClient returns the shared counter and cache store client.
func (c *Container) RedisClient() (*goredis.Client, error) {
	c.redisClientInit.Do(func() {
		client, err := redis.Connect(context.Background(), redis.Config{
			URL:         c.config.RedisURL,
			DialTimeout: c.config.RedisDialTimeout,
			OpTimeout:   c.config.RedisOpTimeout,
		})
		if err != nil {
			c.initErrors["redisClient"] = fmt.Errorf("failed to connect to redis: %w", err)
			return
		}
		c.redisClient = client
	})
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	c.metricsProviderInit.Do(func() {
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// GatewayMetrics returns the gateway business metrics, or nil when metrics
// are disabled.
func (c *Container) GatewayMetrics() (*metrics.GatewayMetrics, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	c.gatewayMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["gatewayMetrics"] = fmt.Errorf(
				"failed to get metrics provider for gateway metrics: %w", err)
			return
		}
		gatewayMetrics, err := metrics.NewGatewayMetrics(
			provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["gatewayMetrics"] = fmt.Errorf("failed to create gateway metrics: %w", err)
			return
		}
		c.gatewayMetrics = gatewayMetrics
	})
	if storedErr, exists := c.initErrors["gatewayMetrics"]; exists {
		return nil, storedErr
	}
	return c.gatewayMetrics, nil
}

// Writer returns the shared envelope writer.
func (c *Container) Writer() *httputil.Writer {
	c.writerInit.Do(func() {
		c.writer = httputil.NewWriter(c.config.APIVersion, c.Logger())
	})
	return c.writer
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf(
				"failed to get metrics provider for metrics server: %w", err)
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authorizer, err := c.Authorizer()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorizer for http server: %w", err)
	}

	limiter, err := c.Limiter()
	if err != nil {
		return nil, fmt.Errorf("failed to get limiter for http server: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for http server: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	forecastHandler, err := c.ForecastHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	return http.NewServer(
		c.config,
		db,
		c.Logger(),
		authorizer,
		limiter,
		auditLogUseCase,
		c.Writer(),
		tokenHandler,
		forecastHandler,
		metricsProvider,
	), nil
}
