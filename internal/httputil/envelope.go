// Package httputil assembles the canonical response envelope every gated
// endpoint returns, for success and error cases alike, so callers have a
// single parsing path regardless of outcome.
package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// Metadata carries the capability context of a response.
type Metadata struct {
	CapabilityName string `json:"capability_name"`
	ForecastLabel  string `json:"forecast_label,omitempty"`
	RequestNo      *int64 `json:"request_no,omitempty"`
}

// Misc carries the response bookkeeping fields. Pagination fields are pointers
// so they are omitted entirely when the caller disables pagination.
type Misc struct {
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"`
	Method      string `json:"method"`
	CurrentPage *int   `json:"current_page,omitempty"`
	PerPage     *int   `json:"per_page,omitempty"`
	TotalCount  *int64 `json:"total_count,omitempty"`
	TotalPages  *int   `json:"total_pages,omitempty"`
	StatusCode  int    `json:"status_code"`
	Description string `json:"description"`
}

// Envelope is the uniform response wrapper.
type Envelope struct {
	Metadata Metadata `json:"metadata"`
	Data     any      `json:"data"`
	Misc     Misc     `json:"misc"`
}

// Result is what a handler hands to the writer on success.
type Result struct {
	Metadata Metadata
	Data     any
	// Page carries the resolved pagination state; nil when the endpoint is
	// not paginated or the caller disabled pagination.
	Page       *Pagination
	TotalCount int64
}

// Writer renders envelopes with a fixed API version.
type Writer struct {
	version string
	logger  *slog.Logger
	now     func() time.Time
}

// NewWriter creates a Writer stamping the given API version into every
// response.
func NewWriter(version string, logger *slog.Logger) *Writer {
	return &Writer{version: version, logger: logger, now: time.Now}
}

// Success writes a 200 envelope for the given result.
func (w *Writer) Success(c *gin.Context, result *Result) {
	misc := w.baseMisc(c, http.StatusOK, "ok")

	if result.Page != nil && !result.Page.Disabled {
		totalPages := result.Page.TotalPages(result.TotalCount)
		misc.CurrentPage = &result.Page.Page
		misc.PerPage = &result.Page.PerPage
		misc.TotalCount = &result.TotalCount
		misc.TotalPages = &totalPages
	}

	data := result.Data
	if data == nil {
		data = gin.H{}
	}

	c.JSON(http.StatusOK, Envelope{
		Metadata: result.Metadata,
		Data:     data,
		Misc:     misc,
	})
}

// Error maps a domain error onto the taxonomy's status code and writes a full
// envelope with an empty data payload. Internal errors never leak store
// details to the caller; the wrapped cause goes to the log instead.
func (w *Writer) Error(c *gin.Context, metadata Metadata, err error) {
	var statusCode int
	var description string

	switch {
	case apperrors.Is(err, apperrors.ErrMissingToken):
		statusCode = http.StatusUnauthorized
		description = "api token is missing"

	case apperrors.Is(err, apperrors.ErrInvalidToken):
		statusCode = http.StatusUnauthorized
		description = "api token is invalid"

	case apperrors.Is(err, apperrors.ErrExpiredToken):
		statusCode = http.StatusForbidden
		description = "api token has expired"

	case apperrors.Is(err, apperrors.ErrNotAuthorized):
		statusCode = http.StatusForbidden
		description = "api token is not authorized for this capability"

	case apperrors.Is(err, apperrors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		description = "rate limit exceeded, retry later"

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		description = err.Error()

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		description = "no matching data found"

	default:
		statusCode = http.StatusInternalServerError
		description = "an internal error occurred"
	}

	if w.logger != nil && statusCode >= http.StatusInternalServerError {
		w.logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("capability", metadata.CapabilityName),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(statusCode, Envelope{
		Metadata: metadata,
		Data:     gin.H{},
		Misc:     w.baseMisc(c, statusCode, description),
	})
}

func (w *Writer) baseMisc(c *gin.Context, statusCode int, description string) Misc {
	return Misc{
		Version:     w.version,
		Timestamp:   w.now().UTC().Format(time.RFC3339),
		Method:      c.Request.Method,
		StatusCode:  statusCode,
		Description: description,
	}
}
