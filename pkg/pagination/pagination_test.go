package pagination

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	p := New(20, 1, 100)

	tests := []struct {
		name     string
		page     int
		limit    int
		expected Plan
	}{
		{"zero page and huge limit", 0, 999999, Plan{Page: 1, Limit: 100, Offset: 0}},
		{"negative page", -4, 10, Plan{Page: 1, Limit: 10, Offset: 0}},
		{"zero limit uses default", 3, 0, Plan{Page: 3, Limit: 20, Offset: 40}},
		{"negative limit uses default", 1, -7, Plan{Page: 1, Limit: 20, Offset: 0}},
		{"within bounds", 2, 25, Plan{Page: 2, Limit: 25, Offset: 25}},
		{"max boundary", 5, 100, Plan{Page: 5, Limit: 100, Offset: 400}},
		{"huge page is capped", math.MaxInt, 100, Plan{Page: math.MaxInt / 100, Limit: 100, Offset: (math.MaxInt/100 - 1) * 100}},
		{"huge page with default limit", math.MaxInt, 0, Plan{Page: math.MaxInt / 20, Limit: 20, Offset: (math.MaxInt/20 - 1) * 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Plan(tt.page, tt.limit))
		})
	}
}

func TestPlan_MinLimit(t *testing.T) {
	p := New(20, 5, 50)
	assert.Equal(t, 5, p.Plan(1, 2).Limit)
}

func TestNew_RepairsBounds(t *testing.T) {
	p := New(500, 0, 100)
	assert.Equal(t, 1, p.MinLimit)
	assert.Equal(t, 100, p.DefaultLimit)
}

func TestParseQuery(t *testing.T) {
	p := New(20, 1, 100)

	plan := p.ParseQuery(url.Values{"page": {"abc"}, "limit": {"ten"}})
	assert.Equal(t, Plan{Page: 1, Limit: 20, Offset: 0}, plan)

	plan = p.ParseQuery(url.Values{"page": {"3"}, "limit": {"15"}})
	assert.Equal(t, Plan{Page: 3, Limit: 15, Offset: 30}, plan)

	plan = p.ParseQuery(url.Values{})
	assert.Equal(t, Plan{Page: 1, Limit: 20, Offset: 0}, plan)

	plan = p.ParseQuery(url.Values{"page": {strconv.Itoa(math.MaxInt / 10)}, "limit": {"100"}})
	assert.GreaterOrEqual(t, plan.Offset, 0)
	assert.Equal(t, (plan.Page-1)*plan.Limit, plan.Offset)
}

func TestEnvelope(t *testing.T) {
	p := New(20, 1, 100)

	empty := p.Envelope(0, 0, p.Plan(1, 20))
	assert.Equal(t, int64(1), empty.TotalPages)
	assert.Equal(t, 0, empty.TotalInPage)
	assert.Equal(t, 1, empty.CurrentPage)
	assert.Equal(t, 20, empty.PageSize)

	meta := p.Envelope(1, 41, p.Plan(3, 20))
	assert.Equal(t, int64(3), meta.TotalPages)
	assert.Equal(t, int64(41), meta.Total)
	assert.Equal(t, 3, meta.CurrentPage)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(1), TotalPages(0, 20))
	assert.Equal(t, int64(1), TotalPages(20, 20))
	assert.Equal(t, int64(2), TotalPages(21, 20))
	assert.Equal(t, int64(1), TotalPages(5, 0))
}
