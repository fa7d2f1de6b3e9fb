// Package query provides the read facades over the read model: typed,
// read-only query services for public and club-scoped consumers.
package query

import "math"

// Page is the pagination envelope. Pages are zero-based.
type Page[T any] struct {
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	Page       int `json:"page"`
	Results    []T `json:"results"`
}

// NewPage assembles the envelope for one page of results.
func NewPage[T any](results []T, totalCount, page, perPage int) Page[T] {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(perPage)))
	}
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		TotalCount: totalCount,
		TotalPages: totalPages,
		Count:      len(results),
		Page:       page,
		Results:    results,
	}
}

// normalizePaging clamps paging inputs: negative pages become 0, non-positive
// page sizes fall back to the default.
func normalizePaging(page, perPage int) (int, int) {
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = 20
	}
	return page, perPage
}
