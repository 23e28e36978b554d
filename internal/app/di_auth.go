package app

import (
	"fmt"

	authHTTP "github.com/cuacalab/forecast-api/internal/auth/http"
	authRepository "github.com/cuacalab/forecast-api/internal/auth/repository"
	authService "github.com/cuacalab/forecast-api/internal/auth/service"
	authUseCase "github.com/cuacalab/forecast-api/internal/auth/usecase"
	"github.com/cuacalab/forecast-api/internal/ratelimit"
)

// TokenService returns the token signing service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService(c.config.TokenSigningKey)
	})
	return c.tokenService
}

// TokenRepository returns the token repository based on database driver.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		repo, err := c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
			return
		}
		c.tokenRepo = repo
	})
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// CapabilityRepository returns the capability repository based on database driver.
func (c *Container) CapabilityRepository() (authUseCase.CapabilityRepository, error) {
	c.capabilityRepoInit.Do(func() {
		repo, err := c.initCapabilityRepository()
		if err != nil {
			c.initErrors["capabilityRepo"] = err
			return
		}
		c.capabilityRepo = repo
	})
	if storedErr, exists := c.initErrors["capabilityRepo"]; exists {
		return nil, storedErr
	}
	return c.capabilityRepo, nil
}

// AuditLogRepository returns the audit log repository based on database driver.
func (c *Container) AuditLogRepository() (authUseCase.AuditLogRepository, error) {
	c.auditLogRepoInit.Do(func() {
		repo, err := c.initAuditLogRepository()
		if err != nil {
			c.initErrors["auditLogRepo"] = err
			return
		}
		c.auditLogRepo = repo
	})
	if storedErr, exists := c.initErrors["auditLogRepo"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepo, nil
}

// Authorizer returns the request authorizer, wrapped with decision metrics
// when metrics are enabled.
func (c *Container) Authorizer() (authUseCase.Authorizer, error) {
	c.authorizerInit.Do(func() {
		authorizer, err := c.initAuthorizer()
		if err != nil {
			c.initErrors["authorizer"] = err
			return
		}
		c.authorizer = authorizer
	})
	if storedErr, exists := c.initErrors["authorizer"]; exists {
		return nil, storedErr
	}
	return c.authorizer, nil
}

// TokenUseCase returns the token lifecycle use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		useCase, err := c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		c.tokenUseCase = useCase
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// AuditLogUseCase returns the audit log use case.
func (c *Container) AuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	c.auditLogUseCaseInit.Do(func() {
		useCase, err := c.initAuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogUseCase"] = err
			return
		}
		c.auditLogUseCase = useCase
	})
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// Limiter returns the shared-store rate limiter.
func (c *Container) Limiter() (ratelimit.Limiter, error) {
	c.limiterInit.Do(func() {
		client, err := c.RedisClient()
		if err != nil {
			c.initErrors["limiter"] = fmt.Errorf("failed to get redis client for limiter: %w", err)
			return
		}
		c.limiter = ratelimit.NewLimiter(ratelimit.NewRedisCounterStore(client), c.Logger())
	})
	if storedErr, exists := c.initErrors["limiter"]; exists {
		return nil, storedErr
	}
	return c.limiter, nil
}

// TokenHandler returns the HTTP handler for token operations.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	c.tokenHandlerInit.Do(func() {
		tokenUseCase, err := c.TokenUseCase()
		if err != nil {
			c.initErrors["tokenHandler"] = fmt.Errorf(
				"failed to get token use case for token handler: %w", err)
			return
		}
		c.tokenHandler = authHTTP.NewTokenHandler(tokenUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initTokenRepository creates the token repository based on the database driver.
func (c *Container) initTokenRepository() (authUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCapabilityRepository creates the capability repository based on the database driver.
func (c *Container) initCapabilityRepository() (authUseCase.CapabilityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for capability repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLCapabilityRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLCapabilityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogRepository creates the audit log repository based on the database driver.
func (c *Container) initAuditLogRepository() (authUseCase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLAuditLogRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuthorizer creates the authorizer with all its dependencies.
func (c *Container) initAuthorizer() (authUseCase.Authorizer, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for authorizer: %w", err)
	}

	baseAuthorizer := authUseCase.NewAuthorizer(c.config, tokenRepo, c.TokenService())

	if c.config.MetricsEnabled {
		gatewayMetrics, err := c.GatewayMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get gateway metrics for authorizer: %w", err)
		}
		return authUseCase.NewAuthorizerWithMetrics(baseAuthorizer, gatewayMetrics), nil
	}

	return baseAuthorizer, nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	capabilityRepo, err := c.CapabilityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability repository for token use case: %w", err)
	}

	return authUseCase.NewTokenUseCase(c.config, tokenRepo, capabilityRepo, c.TokenService()), nil
}

// initAuditLogUseCase creates the audit log use case with all its dependencies.
func (c *Container) initAuditLogUseCase() (authUseCase.AuditLogUseCase, error) {
	auditLogRepo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	return authUseCase.NewAuditLogUseCase(auditLogRepo, c.config.AuditLogTimeout, c.Logger()), nil
}
