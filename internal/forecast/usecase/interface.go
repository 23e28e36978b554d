// Package usecase implements the gated forecast queries with read-through
// caching, and the ingestion write path that invalidates them.
package usecase

import (
	"context"
	"encoding/json"
	"time"

	forecastDomain "github.com/cuacalab/forecast-api/internal/forecast/domain"
)

// ForecastRepository defines read and ingestion access to the forecast store.
type ForecastRepository interface {
	// ListTenday retrieves ten-day forecast rows matching the filter, ordered
	// by region id then forecast date.
	ListTenday(ctx context.Context, filter *forecastDomain.TendayFilter) ([]*forecastDomain.TendayForecast, error)

	// CountTenday counts ten-day forecast rows matching the filter, ignoring
	// the filter's offset and limit.
	CountTenday(ctx context.Context, filter *forecastDomain.TendayFilter) (int64, error)

	// LatestIssueDate retrieves the newest issue date on or before the given
	// date. Returns ErrNotFound when no forecast data exists.
	LatestIssueDate(ctx context.Context, onOrBefore time.Time) (time.Time, error)

	// ListProvinces retrieves all provinces ordered by id.
	ListProvinces(ctx context.Context) ([]*forecastDomain.Province, error)

	// ListRegions retrieves regions ordered by id, optionally restricted to
	// the Ceram island group.
	ListRegions(ctx context.Context, ceramOnly bool) ([]*forecastDomain.Region, error)

	// ReplaceForIssueDate atomically replaces all forecast rows for an issue
	// date with the given rows.
	ReplaceForIssueDate(ctx context.Context, issueDate time.Time, rows []*forecastDomain.TendayForecast) error
}

// Page carries resolved pagination for a query. Disabled means the caller
// asked for the full result set.
type Page struct {
	Offset   int
	Limit    int
	Disabled bool
}

// TendayQuery narrows a ten-day forecast request.
type TendayQuery struct {
	ProvinceID *int64
	RegionID   *int64
	Page       Page
}

// QueryResult is a gated query outcome: the serialized data payload, the
// unpaginated total and whether the payload was served from cache.
type QueryResult struct {
	Data       json.RawMessage
	TotalCount int64
	FromCache  bool
}

// ForecastUseCase defines the gated forecast query operations plus ingestion.
type ForecastUseCase interface {
	// TendayCurrent serves the most recently ingested ten-day forecast.
	// Returns ErrNotFound when no rows match.
	TendayCurrent(ctx context.Context, query *TendayQuery) (*QueryResult, error)

	// TendayByDate serves the ten-day forecast for a requested issue date.
	// Returns ErrNotFound when no rows match.
	TendayByDate(ctx context.Context, issueDate time.Time, query *TendayQuery) (*QueryResult, error)

	// Ceram serves the most recently ingested forecast restricted to the
	// Ceram island regions. Returns ErrNotFound when no rows match.
	Ceram(ctx context.Context, query *TendayQuery) (*QueryResult, error)

	// Provinces serves the province reference list.
	Provinces(ctx context.Context, page Page) (*QueryResult, error)

	// Regions serves the region reference list.
	Regions(ctx context.Context, page Page) (*QueryResult, error)

	// Ingest replaces the forecast rows for an issue date and proactively
	// invalidates the affected cache namespaces so fresh data is visible
	// before the TTL runs out.
	Ingest(ctx context.Context, issueDate time.Time, rows []*forecastDomain.TendayForecast) error
}
