package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forecast.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunImportForecast_InputValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidDate", func(t *testing.T) {
		err := RunImportForecast(ctx, "whatever.json", "01-06-2025")

		require.Error(t, err)
		require.Contains(t, err.Error(), "must be YYYY-MM-DD")
	})

	t.Run("MissingFile", func(t *testing.T) {
		err := RunImportForecast(ctx, filepath.Join(t.TempDir(), "missing.json"), "2025-06-01")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to read forecast file")
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		path := writeTempFile(t, `{"not": "an array"`)

		err := RunImportForecast(ctx, path, "2025-06-01")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse forecast file")
	})

	t.Run("EmptyRows", func(t *testing.T) {
		path := writeTempFile(t, `[]`)

		err := RunImportForecast(ctx, path, "2025-06-01")

		require.Error(t, err)
		require.Contains(t, err.Error(), "no rows")
	})

	t.Run("InvalidForecastDate", func(t *testing.T) {
		path := writeTempFile(t, `[{"region_id":1,"forecast_date":"tomorrow","weather":"sunny"}]`)

		err := RunImportForecast(ctx, path, "2025-06-01")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid forecast_date")
	})
}
