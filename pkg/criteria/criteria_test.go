package criteria

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFiltersCompileToBSON(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bson.M
	}{
		{
			name:   "equals",
			filter: Equals("locked", false),
			want:   bson.M{"locked": false},
		},
		{
			name:   "like",
			filter: Like("c_url", "/backend/%"),
			want:   bson.M{"c_url": primitive.Regex{Pattern: `^/backend/.*$`}},
		},
		{
			name:   "and with a single filter collapses",
			filter: And(Equals("controller", "system.backend.base")),
			want:   bson.M{"controller": "system.backend.base"},
		},
		{
			name:   "and",
			filter: And(Equals("controller", "c"), Equals("action", "a")),
			want: bson.M{"$and": []bson.M{
				{"controller": "c"},
				{"action": "a"},
			}},
		},
		{
			name:   "empty and",
			filter: And(),
			want:   bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.BSON())
		})
	}
}

func TestFiltersMatchInMemory(t *testing.T) {
	doc := map[string]interface{}{
		"controller": "system.backend.seo_url_config",
		"action":     "seoUrlEditAction",
		"c_url":      "/backend/seo_config/edit/{ctrl}/{action}",
		"locked":     true,
		"count":      int64(3),
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"equals string", Equals("action", "seoUrlEditAction"), true},
		{"equals other string", Equals("action", "homeAction"), false},
		{"equals bool", Equals("locked", true), true},
		{"equals numeric across types", Equals("count", 3), true},
		{"equals missing field", Equals("missing", "x"), false},
		{"like prefix", Like("c_url", "/backend/%"), true},
		{"like single char", Like("action", "seoUrl_ditAction"), true},
		{"like literal dot", Like("controller", "system.backend.%"), true},
		{"like no match", Like("c_url", "/frontend/%"), false},
		{"like regex chars quoted", Like("c_url", "/backend/seo_config/edit/{ctrl}/%"), true},
		{"like on non string", Like("locked", "%"), false},
		{"and all", And(Equals("locked", true), Like("action", "%Action")), true},
		{"and one fails", And(Equals("locked", false), Like("action", "%Action")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(doc))
		})
	}
}

func TestFilterValidation(t *testing.T) {
	assert.NoError(t, Equals("locked", false).Validate())
	assert.True(t, errors.Is(Equals("", 1).Validate(), ErrInvalidFilter))
	assert.True(t, errors.Is(Equals("f", func() {}).Validate(), ErrInvalidFilter))
	assert.True(t, errors.Is(Like("c_url", "").Validate(), ErrInvalidFilter))
	assert.True(t, errors.Is(And(Equals("a", 1), Like("", "%")).Validate(), ErrInvalidFilter))
	assert.True(t, errors.Is(And(nil).Validate(), ErrInvalidFilter))
}

func TestCriteriaComposition(t *testing.T) {
	c := New(Equals("controller", "c"))
	assert.Equal(t, bson.M{"controller": "c"}, c.Query())

	c.AddFilter(Equals("action", "a"))
	c.AddFilter(Equals("locked", false))
	and, ok := c.Filter.(AndFilter)
	require.True(t, ok)
	assert.Len(t, and.Filters, 3)

	var empty *Criteria
	assert.Equal(t, bson.M{}, empty.Query())
	assert.True(t, empty.Matches(map[string]interface{}{"x": 1}))
	assert.NoError(t, empty.Validate())

	assert.Error(t, New().Page(10, -1).Validate())
}

func TestCriteriaFindOptions(t *testing.T) {
	c := New().SortBy("created_at", false).SortBy("_id", false).Page(20, 40)
	opts := c.FindOptions()

	require.NotNil(t, opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, int64(40), *opts.Skip)
	assert.Equal(t, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}, opts.Sort)

	unbounded := New().FindOptions()
	assert.Nil(t, unbounded.Limit)
	assert.Nil(t, unbounded.Skip)
}

func TestCriteriaLessAndWindow(t *testing.T) {
	now := time.Now()
	c := New().SortBy("created_at", false).SortBy("_id", false)

	a := map[string]interface{}{"created_at": now, "_id": "b"}
	b := map[string]interface{}{"created_at": now.Add(time.Second), "_id": "a"}
	sameTime := map[string]interface{}{"created_at": now, "_id": "c"}

	assert.True(t, c.Less(a, b))
	assert.False(t, c.Less(b, a))
	assert.True(t, c.Less(a, sameTime))

	start, end := New().Page(2, 3).Window(10)
	assert.Equal(t, 3, start)
	assert.Equal(t, 5, end)

	start, end = New().Page(5, 8).Window(10)
	assert.Equal(t, 8, start)
	assert.Equal(t, 10, end)

	start, end = New().Page(0, 20).Window(10)
	assert.Equal(t, 10, start)
	assert.Equal(t, 10, end)
}

func TestWindowClampsHugeBounds(t *testing.T) {
	tests := []struct {
		name       string
		limit      int64
		offset     int64
		start, end int
	}{
		{"max limit after offset", math.MaxInt64, 1, 1, 3},
		{"max limit from start", math.MaxInt64, 0, 0, 3},
		{"max offset", 2, math.MaxInt64, 3, 3},
		{"limit fits", 1, 1, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := New().Page(tt.limit, tt.offset).Window(3)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
