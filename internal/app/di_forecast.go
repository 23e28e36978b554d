package app

import (
	"fmt"

	"github.com/cuacalab/forecast-api/internal/cache"
	forecastHTTP "github.com/cuacalab/forecast-api/internal/forecast/http"
	forecastRepository "github.com/cuacalab/forecast-api/internal/forecast/repository"
	forecastUseCase "github.com/cuacalab/forecast-api/internal/forecast/usecase"
)

// ForecastRepository returns the forecast repository based on database driver.
func (c *Container) ForecastRepository() (forecastUseCase.ForecastRepository, error) {
	c.forecastRepoInit.Do(func() {
		repo, err := c.initForecastRepository()
		if err != nil {
			c.initErrors["forecastRepo"] = err
			return
		}
		c.forecastRepo = repo
	})
	if storedErr, exists := c.initErrors["forecastRepo"]; exists {
		return nil, storedErr
	}
	return c.forecastRepo, nil
}

// ResponseCache returns the shared response cache.
func (c *Container) ResponseCache() (*cache.Cache, error) {
	c.responseCacheInit.Do(func() {
		client, err := c.RedisClient()
		if err != nil {
			c.initErrors["responseCache"] = fmt.Errorf(
				"failed to get redis client for response cache: %w", err)
			return
		}
		c.responseCache = cache.New(cache.NewRedisStore(client), c.Logger())
	})
	if storedErr, exists := c.initErrors["responseCache"]; exists {
		return nil, storedErr
	}
	return c.responseCache, nil
}

// ForecastUseCase returns the forecast query use case, wrapped with cache
// outcome metrics when metrics are enabled.
func (c *Container) ForecastUseCase() (forecastUseCase.ForecastUseCase, error) {
	c.forecastUseCaseInit.Do(func() {
		useCase, err := c.initForecastUseCase()
		if err != nil {
			c.initErrors["forecastUseCase"] = err
			return
		}
		c.forecastUseCase = useCase
	})
	if storedErr, exists := c.initErrors["forecastUseCase"]; exists {
		return nil, storedErr
	}
	return c.forecastUseCase, nil
}

// ForecastHandler returns the HTTP handler for the gated forecast endpoints.
func (c *Container) ForecastHandler() (*forecastHTTP.ForecastHandler, error) {
	c.forecastHandlerInit.Do(func() {
		useCase, err := c.ForecastUseCase()
		if err != nil {
			c.initErrors["forecastHandler"] = fmt.Errorf(
				"failed to get forecast use case for forecast handler: %w", err)
			return
		}
		c.forecastHandler = forecastHTTP.NewForecastHandler(useCase, c.Writer(), c.Logger())
	})
	if storedErr, exists := c.initErrors["forecastHandler"]; exists {
		return nil, storedErr
	}
	return c.forecastHandler, nil
}

// initForecastRepository creates the forecast repository based on the database driver.
func (c *Container) initForecastRepository() (forecastUseCase.ForecastRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for forecast repository: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for forecast repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return forecastRepository.NewPostgreSQLForecastRepository(db, txManager), nil
	case "mysql":
		return forecastRepository.NewMySQLForecastRepository(db, txManager), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initForecastUseCase creates the forecast use case with all its dependencies.
func (c *Container) initForecastUseCase() (forecastUseCase.ForecastUseCase, error) {
	repo, err := c.ForecastRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast repository for forecast use case: %w", err)
	}

	responseCache, err := c.ResponseCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get response cache for forecast use case: %w", err)
	}

	baseUseCase := forecastUseCase.NewForecastUseCase(
		repo,
		responseCache,
		c.config.CacheForecastTTL,
		c.config.CacheReferenceTTL,
	)

	if c.config.MetricsEnabled {
		gatewayMetrics, err := c.GatewayMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get gateway metrics for forecast use case: %w", err)
		}
		return forecastUseCase.NewForecastUseCaseWithMetrics(baseUseCase, gatewayMetrics), nil
	}

	return baseUseCase, nil
}
