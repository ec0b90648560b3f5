// Package pagination turns untrusted page/limit input into bounded query plans
// and the response envelope returned by list endpoints.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

// Planner bounds list requests. The zero value is not usable; use New.
type Planner struct {
	DefaultLimit int
	MinLimit     int
	MaxLimit     int
}

// Plan is a normalized page request.
type Plan struct {
	Page   int
	Limit  int
	Offset int
}

// Meta is the pagination envelope attached to list responses.
type Meta struct {
	TotalInPage int   `json:"total_in_page"`
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// New returns a Planner, repairing inconsistent bounds.
func New(defaultLimit, minLimit, maxLimit int) Planner {
	if minLimit < 1 {
		minLimit = 1
	}
	if maxLimit < minLimit {
		maxLimit = minLimit
	}
	p := Planner{DefaultLimit: defaultLimit, MinLimit: minLimit, MaxLimit: maxLimit}
	p.DefaultLimit = p.clamp(defaultLimit)
	return p
}

func (p Planner) clamp(limit int) int {
	if limit < p.MinLimit {
		return p.MinLimit
	}
	if limit > p.MaxLimit {
		return p.MaxLimit
	}
	return limit
}

// Plan normalizes a raw page and limit. Pages below 1 become 1, a non-positive
// limit means the default, and every limit ends up inside [MinLimit, MaxLimit].
// Pages are capped so the offset never overflows.
func (p Planner) Plan(rawPage, rawLimit int) Plan {
	page := rawPage
	if page < 1 {
		page = 1
	}

	limit := rawLimit
	if limit <= 0 {
		limit = p.DefaultLimit
	}
	limit = p.clamp(limit)

	// keep (page-1)*limit inside int
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return Plan{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParseQuery reads "page" and "limit" from a query string. Missing or
// non-numeric values fall back to the defaults.
func (p Planner) ParseQuery(q url.Values) Plan {
	return p.Plan(atoiOr(q.Get("page"), 1), atoiOr(q.Get("limit"), 0))
}

// Envelope builds the response metadata for one page of results.
func (p Planner) Envelope(itemsInPage int, total int64, plan Plan) Meta {
	return Meta{
		TotalInPage: itemsInPage,
		Total:       total,
		TotalPages:  TotalPages(total, plan.Limit),
		CurrentPage: plan.Page,
		PageSize:    plan.Limit,
	}
}

// TotalPages is ceil(total/limit), never less than 1.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 1
	}
	l := int64(limit)
	return (total + l - 1) / l
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
