// Package http serves the five gated forecast query endpoints.
package http

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	authHTTP "github.com/cuacalab/forecast-api/internal/auth/http"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
	forecastUseCase "github.com/cuacalab/forecast-api/internal/forecast/usecase"
	"github.com/cuacalab/forecast-api/internal/httputil"
)

const dateLayout = "2006-01-02"

// ForecastHandler serves the gated forecast queries. It runs after the
// gateway middleware chain, so every request here is authorized, rate
// checked and audit logged.
type ForecastHandler struct {
	forecastUseCase forecastUseCase.ForecastUseCase
	writer          *httputil.Writer
	logger          *slog.Logger
}

// NewForecastHandler creates a new forecast handler with required dependencies.
func NewForecastHandler(
	useCase forecastUseCase.ForecastUseCase,
	writer *httputil.Writer,
	logger *slog.Logger,
) *ForecastHandler {
	return &ForecastHandler{
		forecastUseCase: useCase,
		writer:          writer,
		logger:          logger,
	}
}

// TendayCurrentHandler serves the ten-day forecast issued today.
// GET /v1/tenday/current - capability 1.
func (h *ForecastHandler) TendayCurrentHandler(c *gin.Context) {
	metadata := h.metadata(c, authDomain.CapabilityTendayCurrent)

	page, query, err := parseTendayQuery(c)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	result, err := h.forecastUseCase.TendayCurrent(c.Request.Context(), query)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	h.success(c, metadata, page, result)
}

// TendayByDateHandler serves the ten-day forecast for a requested issue date.
// GET /v1/tenday/date?date=YYYY-MM-DD - capability 2. The date is required.
func (h *ForecastHandler) TendayByDateHandler(c *gin.Context) {
	metadata := h.metadata(c, authDomain.CapabilityTendayDate)

	dateStr := c.Query("date")
	if dateStr == "" {
		h.writer.Error(c, metadata, apperrors.Wrap(
			apperrors.ErrInvalidInput, "date parameter is required"))
		return
	}

	issueDate, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		h.writer.Error(c, metadata, apperrors.Wrap(
			apperrors.ErrInvalidInput, "invalid date parameter: must be YYYY-MM-DD"))
		return
	}

	page, query, err := parseTendayQuery(c)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	result, err := h.forecastUseCase.TendayByDate(c.Request.Context(), issueDate, query)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	h.success(c, metadata, page, result)
}

// CeramHandler serves today's forecast restricted to the Ceram island regions.
// GET /v1/ceram - capability 3.
func (h *ForecastHandler) CeramHandler(c *gin.Context) {
	metadata := h.metadata(c, authDomain.CapabilityCeram)

	page, query, err := parseTendayQuery(c)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	result, err := h.forecastUseCase.Ceram(c.Request.Context(), query)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	h.success(c, metadata, page, result)
}

// ProvinceHandler serves the province reference list.
// GET /v1/province - capability 4.
func (h *ForecastHandler) ProvinceHandler(c *gin.Context) {
	metadata := h.metadata(c, authDomain.CapabilityProvince)

	page, err := httputil.ParsePagination(c)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	result, err := h.forecastUseCase.Provinces(c.Request.Context(), toPage(page))
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	h.success(c, metadata, page, result)
}

// RegionHandler serves the region reference list.
// GET /v1/region - capability 5.
func (h *ForecastHandler) RegionHandler(c *gin.Context) {
	metadata := h.metadata(c, authDomain.CapabilityRegion)

	page, err := httputil.ParsePagination(c)
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	result, err := h.forecastUseCase.Regions(c.Request.Context(), toPage(page))
	if err != nil {
		h.writer.Error(c, metadata, err)
		return
	}

	h.success(c, metadata, page, result)
}

// metadata builds the envelope metadata, echoing the audit request number
// when the trail was written.
func (h *ForecastHandler) metadata(
	c *gin.Context,
	id authDomain.CapabilityID,
) httputil.Metadata {
	capability, _ := authDomain.DefinitionOf(id)
	return httputil.Metadata{
		CapabilityName: capability.Name,
		ForecastLabel:  capability.Label,
		RequestNo:      authHTTP.GetRequestNo(c.Request.Context()),
	}
}

func (h *ForecastHandler) success(
	c *gin.Context,
	metadata httputil.Metadata,
	page *httputil.Pagination,
	result *forecastUseCase.QueryResult,
) {
	h.writer.Success(c, &httputil.Result{
		Metadata:   metadata,
		Data:       result.Data,
		Page:       page,
		TotalCount: result.TotalCount,
	})
}

// parseTendayQuery parses pagination plus the optional location filters.
func parseTendayQuery(c *gin.Context) (*httputil.Pagination, *forecastUseCase.TendayQuery, error) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		return nil, nil, err
	}

	query := &forecastUseCase.TendayQuery{Page: toPage(page)}

	if provinceStr := c.Query("province_id"); provinceStr != "" {
		provinceID, err := strconv.ParseInt(provinceStr, 10, 64)
		if err != nil {
			return nil, nil, apperrors.Wrap(
				apperrors.ErrInvalidInput, "invalid province_id parameter: must be an integer")
		}
		query.ProvinceID = &provinceID
	}

	if regionStr := c.Query("region_id"); regionStr != "" {
		regionID, err := strconv.ParseInt(regionStr, 10, 64)
		if err != nil {
			return nil, nil, apperrors.Wrap(
				apperrors.ErrInvalidInput, "invalid region_id parameter: must be an integer")
		}
		query.RegionID = &regionID
	}

	return page, query, nil
}

func toPage(page *httputil.Pagination) forecastUseCase.Page {
	if page.Disabled {
		return forecastUseCase.Page{Disabled: true}
	}
	return forecastUseCase.Page{Offset: page.Offset(), Limit: page.PerPage}
}
