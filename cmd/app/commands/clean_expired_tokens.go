package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuacalab/forecast-api/internal/app"
	"github.com/cuacalab/forecast-api/internal/config"
)

// RunCleanExpiredTokens deletes tokens whose expiry passed more than the
// specified number of days ago. Supports dry-run mode and text/JSON output.
func RunCleanExpiredTokens(ctx context.Context, days int, dryRun bool, format string) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("cleaning expired tokens",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	defer closeContainer(container, logger)

	tokenUseCase, err := container.TokenUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize token use case: %w", err)
	}

	count, err := tokenUseCase.CleanupExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	if format == "json" {
		outputCleanJSON(count, days, dryRun)
	} else {
		outputCleanText("expired token", count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
