package common

import (
	"net/http"
	"strconv"

	"breathe-backend/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

// ExtractPaginationParams reads page and limit from the query string.
// Present but invalid values are reported as field errors rather than clamped.
func ExtractPaginationParams(r *http.Request) (PaginationParams, []errors.FieldError) {
	params := DefaultPaginationParams()
	var fields []errors.FieldError

	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			fields = append(fields, errors.FieldError{Field: "page", Message: "page must be a positive integer"})
		} else {
			params.Page = p
		}
	}

	if raw := q.Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 1 || l > MaxLimit {
			fields = append(fields, errors.FieldError{Field: "limit", Message: "limit must be between 1 and 100"})
		} else {
			params.Limit = l
		}
	}

	return params, fields
}

// Offset calculates the offset for store queries
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// PaginationInfo contains pagination details
type PaginationInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// BuildPaginationInfo builds pagination metadata
func BuildPaginationInfo(p PaginationParams, total int) PaginationInfo {
	return PaginationInfo{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: CalculateTotalPages(total, p.Limit),
	}
}
