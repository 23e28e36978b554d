package usecase

import (
	"context"
	"time"

	forecastDomain "github.com/cuacalab/forecast-api/internal/forecast/domain"
	"github.com/cuacalab/forecast-api/internal/metrics"
)

// forecastUseCaseWithMetrics decorates a ForecastUseCase and counts cache
// outcomes per query namespace.
type forecastUseCaseWithMetrics struct {
	next            ForecastUseCase
	businessMetrics *metrics.GatewayMetrics
}

func (f *forecastUseCaseWithMetrics) TendayCurrent(
	ctx context.Context,
	query *TendayQuery,
) (*QueryResult, error) {
	result, err := f.next.TendayCurrent(ctx, query)
	f.record(ctx, "tenday", result, err)
	return result, err
}

func (f *forecastUseCaseWithMetrics) TendayByDate(
	ctx context.Context,
	issueDate time.Time,
	query *TendayQuery,
) (*QueryResult, error) {
	result, err := f.next.TendayByDate(ctx, issueDate, query)
	f.record(ctx, "tenday", result, err)
	return result, err
}

func (f *forecastUseCaseWithMetrics) Ceram(
	ctx context.Context,
	query *TendayQuery,
) (*QueryResult, error) {
	result, err := f.next.Ceram(ctx, query)
	f.record(ctx, "ceram", result, err)
	return result, err
}

func (f *forecastUseCaseWithMetrics) Provinces(
	ctx context.Context,
	page Page,
) (*QueryResult, error) {
	result, err := f.next.Provinces(ctx, page)
	f.record(ctx, "province", result, err)
	return result, err
}

func (f *forecastUseCaseWithMetrics) Regions(
	ctx context.Context,
	page Page,
) (*QueryResult, error) {
	result, err := f.next.Regions(ctx, page)
	f.record(ctx, "region", result, err)
	return result, err
}

func (f *forecastUseCaseWithMetrics) Ingest(
	ctx context.Context,
	issueDate time.Time,
	forecasts []*forecastDomain.TendayForecast,
) error {
	return f.next.Ingest(ctx, issueDate, forecasts)
}

// record counts one cache lookup. Failed queries are skipped since no lookup
// outcome exists for them.
func (f *forecastUseCaseWithMetrics) record(
	ctx context.Context,
	namespace string,
	result *QueryResult,
	err error,
) {
	if err != nil || result == nil {
		return
	}
	f.businessMetrics.RecordCacheRequest(ctx, namespace, result.FromCache)
}

// NewForecastUseCaseWithMetrics wraps a ForecastUseCase with cache outcome metrics.
func NewForecastUseCaseWithMetrics(
	next ForecastUseCase,
	businessMetrics *metrics.GatewayMetrics,
) ForecastUseCase {
	return &forecastUseCaseWithMetrics{next: next, businessMetrics: businessMetrics}
}
