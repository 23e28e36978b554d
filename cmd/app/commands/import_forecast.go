package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cuacalab/forecast-api/internal/app"
	"github.com/cuacalab/forecast-api/internal/config"
	forecastDomain "github.com/cuacalab/forecast-api/internal/forecast/domain"
)

// forecastRow is the JSON shape of one imported forecast row.
type forecastRow struct {
	RegionID     int64  `json:"region_id"`
	ForecastDate string `json:"forecast_date"`
	Weather      string `json:"weather"`
	TempMin      int    `json:"temp_min"`
	TempMax      int    `json:"temp_max"`
	HumidityMin  int    `json:"humidity_min"`
	HumidityMax  int    `json:"humidity_max"`
}

// RunImportForecast replaces the ten-day forecast rows for an issue date with
// the contents of a JSON file and invalidates the affected cached queries.
func RunImportForecast(ctx context.Context, filePath, dateStr string) error {
	issueDate := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid date %q: must be YYYY-MM-DD", dateStr)
		}
		issueDate = parsed
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read forecast file: %w", err)
	}

	var rows []forecastRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to parse forecast file: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("forecast file contains no rows")
	}

	forecasts := make([]*forecastDomain.TendayForecast, 0, len(rows))
	for i, row := range rows {
		forecastDate, err := time.Parse("2006-01-02", row.ForecastDate)
		if err != nil {
			return fmt.Errorf("row %d: invalid forecast_date %q: must be YYYY-MM-DD", i, row.ForecastDate)
		}
		forecasts = append(forecasts, &forecastDomain.TendayForecast{
			RegionID:     row.RegionID,
			IssueDate:    issueDate,
			ForecastDate: forecastDate,
			Weather:      row.Weather,
			TempMin:      row.TempMin,
			TempMax:      row.TempMax,
			HumidityMin:  row.HumidityMin,
			HumidityMax:  row.HumidityMax,
		})
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("importing forecast rows",
		slog.String("issue_date", issueDate.Format("2006-01-02")),
		slog.Int("rows", len(forecasts)),
	)

	defer closeContainer(container, logger)

	forecastUseCase, err := container.ForecastUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize forecast use case: %w", err)
	}

	if err := forecastUseCase.Ingest(ctx, issueDate, forecasts); err != nil {
		return fmt.Errorf("failed to import forecasts: %w", err)
	}

	fmt.Printf("Imported %d forecast row(s) for issue date %s\n",
		len(forecasts), issueDate.Format("2006-01-02"))
	return nil
}
