package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size used when the caller omits "limit".
	DefaultLimit = 25
	// MaxLimit is the largest page size a caller may request.
	MaxLimit = 100
)

// PageParams holds the parsed limit/offset query parameters used
// uniformly across every BFF listing endpoint (C7).
type PageParams struct {
	Limit  int
	Offset int
}

// ParsePageParams extracts and validates limit/offset from the request's
// query string. limit must be in [1,100]; offset must be >= 0. Both default
// when omitted.
func ParsePageParams(r *http.Request) (PageParams, error) {
	p := PageParams{Limit: DefaultLimit, Offset: 0}

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return p, fmt.Errorf("limit must be an integer between 1 and %d", MaxLimit)
		}
		p.Limit = n
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("offset must be a non-negative integer")
		}
		p.Offset = n
	}

	return p, nil
}

// Page is the uniform pagination envelope returned by every BFF listing
// endpoint: items, the total matching row count, the current page/size
// derived from limit/offset, and next/previous availability flags.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Size        int  `json:"size"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPage builds a Page from a result set, the request's PageParams, and
// the total matching row count reported by the store.
func NewPage[T any](items []T, params PageParams, total int) Page[T] {
	page := 1
	if params.Limit > 0 {
		page = params.Offset/params.Limit + 1
	}

	return Page[T]{
		Items:       items,
		Total:       total,
		Page:        page,
		Size:        len(items),
		HasNext:     params.Offset+len(items) < total,
		HasPrevious: params.Offset > 0,
	}
}
