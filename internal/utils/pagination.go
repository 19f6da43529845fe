package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/constants"
)

// ErrInvalidPagination is returned for page or limit values outside the allowed range
var ErrInvalidPagination = errors.New("invalid pagination parameters")

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationMeta represents the pagination metadata in API responses
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginationParams validates page and limit and derives the offset
func NewPaginationParams(page, limit int) (PaginationParams, error) {
	if page < constants.MinPage {
		return PaginationParams{}, fmt.Errorf("%w: page must be at least %d", ErrInvalidPagination, constants.MinPage)
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		return PaginationParams{}, fmt.Errorf("%w: limit must be between %d and %d",
			ErrInvalidPagination, constants.MinPageSize, constants.MaxPageSize)
	}

	// (page-1)*limit must not overflow
	if page-1 > math.MaxInt/limit {
		return PaginationParams{}, fmt.Errorf("%w: page is too large for limit %d", ErrInvalidPagination, limit)
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, nil
}

// ParsePaginationParams parses raw query values. Empty values fall back to
// page 1 and defaultLimit.
func ParsePaginationParams(rawPage, rawLimit string, defaultLimit int) (PaginationParams, error) {
	page := constants.MinPage
	limit := defaultLimit

	if s := strings.TrimSpace(rawPage); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return PaginationParams{}, fmt.Errorf("%w: page must be an integer", ErrInvalidPagination)
		}
		page = n
	}
	if s := strings.TrimSpace(rawLimit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return PaginationParams{}, fmt.Errorf("%w: limit must be an integer", ErrInvalidPagination)
		}
		limit = n
	}

	return NewPaginationParams(page, limit)
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to show
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) > 0 {
		pages++
	}
	return int(pages)
}

// NewPaginationMeta builds response metadata for a page of results
func NewPaginationMeta(params PaginationParams, total int64) PaginationMeta {
	return PaginationMeta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: TotalPages(total, params.Limit),
	}
}
