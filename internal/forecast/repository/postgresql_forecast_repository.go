// Package repository implements forecast persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cuacalab/forecast-api/internal/database"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
	forecastDomain "github.com/cuacalab/forecast-api/internal/forecast/domain"
)

// PostgreSQLForecastRepository implements forecast persistence for PostgreSQL.
// Reads join regions so callers get region names and province ids without a
// second query; ingestion replaces rows inside one transaction.
type PostgreSQLForecastRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// ListTenday retrieves ten-day forecast rows matching the filter, ordered by
// region id then forecast date. A non-positive limit disables row limiting.
func (p *PostgreSQLForecastRepository) ListTenday(
	ctx context.Context,
	filter *forecastDomain.TendayFilter,
) ([]*forecastDomain.TendayForecast, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT f.id, f.region_id, r.name, r.province_id, f.issue_date,
			  	     f.forecast_date, f.weather, f.temp_min, f.temp_max,
				     f.humidity_min, f.humidity_max
			  FROM tenday_forecasts f
			  JOIN regions r ON r.id = f.region_id`

	conditions, args := tendayConditionsPostgres(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY f.region_id, f.forecast_date"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tenday forecasts")
	}
	defer func() {
		_ = rows.Close()
	}()

	forecasts := make([]*forecastDomain.TendayForecast, 0)
	for rows.Next() {
		var forecast forecastDomain.TendayForecast
		err := rows.Scan(
			&forecast.ID,
			&forecast.RegionID,
			&forecast.RegionName,
			&forecast.ProvinceID,
			&forecast.IssueDate,
			&forecast.ForecastDate,
			&forecast.Weather,
			&forecast.TempMin,
			&forecast.TempMax,
			&forecast.HumidityMin,
			&forecast.HumidityMax,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan tenday forecast")
		}
		forecasts = append(forecasts, &forecast)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tenday forecasts")
	}

	return forecasts, nil
}

// CountTenday counts rows matching the filter, ignoring offset and limit.
func (p *PostgreSQLForecastRepository) CountTenday(
	ctx context.Context,
	filter *forecastDomain.TendayFilter,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*)
			  FROM tenday_forecasts f
			  JOIN regions r ON r.id = f.region_id`

	conditions, args := tendayConditionsPostgres(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count tenday forecasts")
	}
	return count, nil
}

// LatestIssueDate retrieves the newest issue date on or before the given
// date. Returns ErrNotFound when no forecast data exists.
func (p *PostgreSQLForecastRepository) LatestIssueDate(
	ctx context.Context,
	onOrBefore time.Time,
) (time.Time, error) {
	querier := database.GetTx(ctx, p.db)

	var issueDate sql.NullTime
	err := querier.QueryRowContext(
		ctx,
		`SELECT MAX(issue_date) FROM tenday_forecasts WHERE issue_date <= $1`,
		onOrBefore,
	).Scan(&issueDate)
	if err != nil {
		return time.Time{}, apperrors.Wrap(err, "failed to get latest issue date")
	}
	if !issueDate.Valid {
		return time.Time{}, apperrors.Wrap(apperrors.ErrNotFound, "no forecast data exists")
	}
	return issueDate.Time, nil
}

// ListProvinces retrieves all provinces ordered by id.
func (p *PostgreSQLForecastRepository) ListProvinces(
	ctx context.Context,
) ([]*forecastDomain.Province, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, `SELECT id, name FROM provinces ORDER BY id`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list provinces")
	}
	defer func() {
		_ = rows.Close()
	}()

	provinces := make([]*forecastDomain.Province, 0)
	for rows.Next() {
		var province forecastDomain.Province
		if err := rows.Scan(&province.ID, &province.Name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan province")
		}
		provinces = append(provinces, &province)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate provinces")
	}

	return provinces, nil
}

// ListRegions retrieves regions ordered by id, optionally restricted to the
// Ceram island group.
func (p *PostgreSQLForecastRepository) ListRegions(
	ctx context.Context,
	ceramOnly bool,
) ([]*forecastDomain.Region, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, province_id, name, latitude, longitude, is_ceram FROM regions`
	if ceramOnly {
		query += ` WHERE is_ceram = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list regions")
	}
	defer func() {
		_ = rows.Close()
	}()

	regions := make([]*forecastDomain.Region, 0)
	for rows.Next() {
		var region forecastDomain.Region
		err := rows.Scan(
			&region.ID,
			&region.ProvinceID,
			&region.Name,
			&region.Latitude,
			&region.Longitude,
			&region.IsCeram,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan region")
		}
		regions = append(regions, &region)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate regions")
	}

	return regions, nil
}

// ReplaceForIssueDate atomically replaces all forecast rows for an issue date
// inside a single transaction, so concurrent readers never observe a
// partially ingested day.
func (p *PostgreSQLForecastRepository) ReplaceForIssueDate(
	ctx context.Context,
	issueDate time.Time,
	forecasts []*forecastDomain.TendayForecast,
) error {
	return p.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, p.db)

		_, err := querier.ExecContext(
			ctx,
			`DELETE FROM tenday_forecasts WHERE issue_date = $1`,
			issueDate,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to delete tenday forecasts")
		}

		query := `INSERT INTO tenday_forecasts
				  (region_id, issue_date, forecast_date, weather, temp_min,
				   temp_max, humidity_min, humidity_max)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

		for _, forecast := range forecasts {
			_, err := querier.ExecContext(
				ctx,
				query,
				forecast.RegionID,
				issueDate,
				forecast.ForecastDate,
				forecast.Weather,
				forecast.TempMin,
				forecast.TempMax,
				forecast.HumidityMin,
				forecast.HumidityMax,
			)
			if err != nil {
				return apperrors.Wrap(err, "failed to insert tenday forecast")
			}
		}

		return nil
	})
}

// NewPostgreSQLForecastRepository creates a new PostgreSQL forecast repository.
func NewPostgreSQLForecastRepository(
	db *sql.DB,
	txManager database.TxManager,
) *PostgreSQLForecastRepository {
	return &PostgreSQLForecastRepository{db: db, txManager: txManager}
}

// tendayConditionsPostgres builds the WHERE clause with $n placeholders.
func tendayConditionsPostgres(filter *forecastDomain.TendayFilter) ([]string, []any) {
	var conditions []string
	var args []any

	if filter.IssueDate != nil {
		args = append(args, *filter.IssueDate)
		conditions = append(conditions, fmt.Sprintf("f.issue_date = $%d", len(args)))
	}
	if filter.ProvinceID != nil {
		args = append(args, *filter.ProvinceID)
		conditions = append(conditions, fmt.Sprintf("r.province_id = $%d", len(args)))
	}
	if filter.RegionID != nil {
		args = append(args, *filter.RegionID)
		conditions = append(conditions, fmt.Sprintf("f.region_id = $%d", len(args)))
	}
	if filter.CeramOnly {
		conditions = append(conditions, "r.is_ceram = TRUE")
	}

	return conditions, args
}
