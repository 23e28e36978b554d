package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// Pagination is the resolved pagination state of a request.
type Pagination struct {
	Page    int
	PerPage int
	// Disabled reports the caller asked for the full result set via
	// page=none; pagination fields are then omitted from the envelope.
	Disabled bool
}

// Offset returns the row offset for the current page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages returns the page count for totalCount rows.
func (p *Pagination) TotalPages(totalCount int64) int {
	if p.Disabled || totalCount == 0 {
		return 1
	}
	pages := int(totalCount) / p.PerPage
	if int(totalCount)%p.PerPage != 0 {
		pages++
	}
	return pages
}

// ParsePagination parses and validates the page and limit/per_page query
// parameters. page defaults to 1 and the sentinel page=none disables
// pagination; limit defaults to 10 and cannot exceed 100. per_page is
// accepted as an alias for limit.
func ParsePagination(c *gin.Context) (*Pagination, error) {
	pageStr := c.DefaultQuery("page", "1")
	if pageStr == "none" {
		return &Pagination{Disabled: true}, nil
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			"invalid page parameter: must be a positive integer or none",
		)
	}

	limitStr := c.Query("limit")
	if limitStr == "" {
		limitStr = c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage))
	}

	perPage, err := strconv.Atoi(limitStr)
	if err != nil || perPage < 1 || perPage > maxPerPage {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			"invalid limit parameter: must be between 1 and 100",
		)
	}

	return &Pagination{Page: page, PerPage: perPage}, nil
}
