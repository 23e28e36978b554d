package commands

import (
	"context"
	"fmt"

	"github.com/cuacalab/forecast-api/internal/app"
	"github.com/cuacalab/forecast-api/internal/config"
)

// RunActivateToken flips a previously issued token to activated status.
// Activation is idempotent; activating an already active token succeeds.
func RunActivateToken(ctx context.Context, plainToken string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("activating api token")

	defer closeContainer(container, logger)

	tokenUseCase, err := container.TokenUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize token use case: %w", err)
	}

	if err := tokenUseCase.Activate(ctx, plainToken); err != nil {
		return fmt.Errorf("failed to activate token: %w", err)
	}

	fmt.Println("Token activated.")
	return nil
}
