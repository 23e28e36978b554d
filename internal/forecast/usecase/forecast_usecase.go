package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cuacalab/forecast-api/internal/cache"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
	forecastDomain "github.com/cuacalab/forecast-api/internal/forecast/domain"
)

const dateLayout = "2006-01-02"

// cachePayload is the serialized shape stored in the cache: the data rows
// plus the unpaginated total, so a hit needs no backing-store round trip.
type cachePayload struct {
	Rows       json.RawMessage `json:"rows"`
	TotalCount int64           `json:"total_count"`
}

// tendayRow is the wire shape of one ten-day forecast entry.
type tendayRow struct {
	RegionID     int64  `json:"region_id"`
	RegionName   string `json:"region_name"`
	ProvinceID   int64  `json:"province_id"`
	IssueDate    string `json:"issue_date"`
	ForecastDate string `json:"forecast_date"`
	Weather      string `json:"weather"`
	TempMin      int    `json:"temp_min"`
	TempMax      int    `json:"temp_max"`
	HumidityMin  int    `json:"humidity_min"`
	HumidityMax  int    `json:"humidity_max"`
}

// provinceRow is the wire shape of one province entry.
type provinceRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// regionRow is the wire shape of one region entry.
type regionRow struct {
	ID         int64   `json:"id"`
	ProvinceID int64   `json:"province_id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	IsCeram    bool    `json:"is_ceram"`
}

// forecastUseCase implements ForecastUseCase with a read-through cache over
// the forecast repository. Forecast data uses a short TTL, reference data a
// long one; ingestion invalidates the forecast namespaces explicitly.
type forecastUseCase struct {
	repo         ForecastRepository
	cache        *cache.Cache
	forecastTTL  time.Duration
	referenceTTL time.Duration
	now          clockFunc
}

// clockFunc returns the current time; injectable for tests.
type clockFunc func() time.Time

// NewForecastUseCase creates a ForecastUseCase over the given repository and
// cache with per-volatility TTLs.
func NewForecastUseCase(
	repo ForecastRepository,
	responseCache *cache.Cache,
	forecastTTL, referenceTTL time.Duration,
) ForecastUseCase {
	return &forecastUseCase{
		repo:         repo,
		cache:        responseCache,
		forecastTTL:  forecastTTL,
		referenceTTL: referenceTTL,
		now:          time.Now,
	}
}

func (f *forecastUseCase) TendayCurrent(
	ctx context.Context,
	query *TendayQuery,
) (*QueryResult, error) {
	issueDate, err := f.currentIssueDate(ctx)
	if err != nil {
		return nil, err
	}
	return f.tenday(ctx, "tenday", issueDate, query, false)
}

func (f *forecastUseCase) TendayByDate(
	ctx context.Context,
	issueDate time.Time,
	query *TendayQuery,
) (*QueryResult, error) {
	return f.tenday(ctx, "tenday", issueDate, query, false)
}

func (f *forecastUseCase) Ceram(ctx context.Context, query *TendayQuery) (*QueryResult, error) {
	issueDate, err := f.currentIssueDate(ctx)
	if err != nil {
		return nil, err
	}
	return f.tenday(ctx, "ceram", issueDate, query, true)
}

// currentIssueDate resolves the newest ingested issue date not after today.
// Ingestion does not necessarily run every day, so the current forecast set
// follows the latest available data instead of the calendar date.
func (f *forecastUseCase) currentIssueDate(ctx context.Context) (time.Time, error) {
	issueDate, err := f.repo.LatestIssueDate(ctx, f.today())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return time.Time{}, apperrors.Wrap(apperrors.ErrNotFound, "no forecast data has been ingested")
		}
		return time.Time{}, err
	}
	return issueDate, nil
}

// tenday is the shared ten-day query path: build the deterministic cache key
// from every parameter that affects the result, then read through.
func (f *forecastUseCase) tenday(
	ctx context.Context,
	namespace string,
	issueDate time.Time,
	query *TendayQuery,
	ceramOnly bool,
) (*QueryResult, error) {
	filter := &forecastDomain.TendayFilter{
		IssueDate:  &issueDate,
		ProvinceID: query.ProvinceID,
		RegionID:   query.RegionID,
		CeramOnly:  ceramOnly,
		Offset:     query.Page.Offset,
		Limit:      query.Page.Limit,
	}
	if query.Page.Disabled {
		filter.Offset = 0
		filter.Limit = 0
	}

	params := map[string]string{
		"issue_date": issueDate.Format(dateLayout),
	}
	if query.ProvinceID != nil {
		params["province_id"] = strconv.FormatInt(*query.ProvinceID, 10)
	}
	if query.RegionID != nil {
		params["region_id"] = strconv.FormatInt(*query.RegionID, 10)
	}
	addPageParams(params, query.Page)

	key := cache.Key(namespace, params, "")

	result, err := f.fetch(ctx, key, f.forecastTTL, func(ctx context.Context) ([]byte, error) {
		rows, err := f.repo.ListTenday(ctx, filter)
		if err != nil {
			return nil, err
		}

		totalCount, err := f.repo.CountTenday(ctx, filter)
		if err != nil {
			return nil, err
		}

		wireRows := make([]tendayRow, 0, len(rows))
		for _, row := range rows {
			wireRows = append(wireRows, tendayRow{
				RegionID:     row.RegionID,
				RegionName:   row.RegionName,
				ProvinceID:   row.ProvinceID,
				IssueDate:    row.IssueDate.Format(dateLayout),
				ForecastDate: row.ForecastDate.Format(dateLayout),
				Weather:      row.Weather,
				TempMin:      row.TempMin,
				TempMax:      row.TempMax,
				HumidityMin:  row.HumidityMin,
				HumidityMax:  row.HumidityMax,
			})
		}

		return marshalPayload(wireRows, totalCount)
	})
	if err != nil {
		return nil, err
	}

	if result.TotalCount == 0 {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "no forecast data for the requested parameters")
	}
	return result, nil
}

func (f *forecastUseCase) Provinces(ctx context.Context, page Page) (*QueryResult, error) {
	params := map[string]string{}
	addPageParams(params, page)
	key := cache.Key("province", params, "")

	return f.fetch(ctx, key, f.referenceTTL, func(ctx context.Context) ([]byte, error) {
		provinces, err := f.repo.ListProvinces(ctx)
		if err != nil {
			return nil, err
		}

		totalCount := int64(len(provinces))
		provinces = slicePage(provinces, page)

		wireRows := make([]provinceRow, 0, len(provinces))
		for _, province := range provinces {
			wireRows = append(wireRows, provinceRow{ID: province.ID, Name: province.Name})
		}

		return marshalPayload(wireRows, totalCount)
	})
}

func (f *forecastUseCase) Regions(ctx context.Context, page Page) (*QueryResult, error) {
	params := map[string]string{}
	addPageParams(params, page)
	key := cache.Key("region", params, "")

	return f.fetch(ctx, key, f.referenceTTL, func(ctx context.Context) ([]byte, error) {
		regions, err := f.repo.ListRegions(ctx, false)
		if err != nil {
			return nil, err
		}

		totalCount := int64(len(regions))
		regions = slicePage(regions, page)

		wireRows := make([]regionRow, 0, len(regions))
		for _, region := range regions {
			wireRows = append(wireRows, regionRow{
				ID:         region.ID,
				ProvinceID: region.ProvinceID,
				Name:       region.Name,
				Latitude:   region.Latitude,
				Longitude:  region.Longitude,
				IsCeram:    region.IsCeram,
			})
		}

		return marshalPayload(wireRows, totalCount)
	})
}

func (f *forecastUseCase) Ingest(
	ctx context.Context,
	issueDate time.Time,
	rows []*forecastDomain.TendayForecast,
) error {
	if err := f.repo.ReplaceForIssueDate(ctx, issueDate, rows); err != nil {
		return err
	}

	// Ingestion is a correctness-affecting write; stale entries must not
	// linger until their TTL runs out.
	if err := f.cache.InvalidateNamespace(ctx, "tenday"); err != nil {
		return err
	}
	return f.cache.InvalidateNamespace(ctx, "ceram")
}

// fetch reads through the cache and decodes the stored payload.
func (f *forecastUseCase) fetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fallback func(ctx context.Context) ([]byte, error),
) (*QueryResult, error) {
	payload, hit, err := f.cache.Fetch(ctx, key, ttl, fallback)
	if err != nil {
		return nil, err
	}

	var decoded cachePayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode cached payload")
	}

	return &QueryResult{
		Data:       decoded.Rows,
		TotalCount: decoded.TotalCount,
		FromCache:  hit,
	}, nil
}

func (f *forecastUseCase) today() time.Time {
	now := f.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func marshalPayload(rows any, totalCount int64) ([]byte, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal forecast rows")
	}
	payload, err := json.Marshal(cachePayload{Rows: data, TotalCount: totalCount})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal cache payload")
	}
	return payload, nil
}

func addPageParams(params map[string]string, page Page) {
	if page.Disabled {
		params["page"] = "none"
		return
	}
	params["offset"] = strconv.Itoa(page.Offset)
	params["limit"] = strconv.Itoa(page.Limit)
}

// slicePage applies in-memory pagination to small reference lists.
func slicePage[T any](rows []T, page Page) []T {
	if page.Disabled || page.Limit <= 0 {
		return rows
	}
	if page.Offset >= len(rows) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[page.Offset:end]
}
