package criteria

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sort orders search results by a field
type Sort struct {
	Field      string
	Descending bool
}

// Criteria describes a search: a filter (nil matches everything), an
// optional page window and a sort order
type Criteria struct {
	Filter Filter
	Limit  int64 // <= 0 means unbounded
	Offset int64
	Sorts  []Sort
}

// New creates criteria from filters; multiple filters are combined with And
func New(filters ...Filter) *Criteria {
	c := &Criteria{}
	for _, f := range filters {
		c.AddFilter(f)
	}
	return c
}

// AddFilter narrows the criteria with another filter
func (c *Criteria) AddFilter(f Filter) *Criteria {
	if f == nil {
		return c
	}
	switch existing := c.Filter.(type) {
	case nil:
		c.Filter = f
	case AndFilter:
		existing.Filters = append(existing.Filters, f)
		c.Filter = existing
	default:
		c.Filter = And(existing, f)
	}
	return c
}

// Page sets limit and offset
func (c *Criteria) Page(limit, offset int64) *Criteria {
	c.Limit = limit
	c.Offset = offset
	return c
}

// SortBy appends a sort key
func (c *Criteria) SortBy(field string, descending bool) *Criteria {
	c.Sorts = append(c.Sorts, Sort{Field: field, Descending: descending})
	return c
}

// Validate checks the filter tree and the page window
func (c *Criteria) Validate() error {
	if c == nil {
		return nil
	}
	if c.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidFilter, c.Offset)
	}
	if c.Filter != nil {
		return c.Filter.Validate()
	}
	return nil
}

// Query compiles the filter to a MongoDB query document
func (c *Criteria) Query() bson.M {
	if c == nil || c.Filter == nil {
		return bson.M{}
	}
	return c.Filter.BSON()
}

// FindOptions compiles sort and page window to MongoDB find options
func (c *Criteria) FindOptions() *options.FindOptions {
	opts := options.Find()
	if c == nil {
		return opts
	}
	if len(c.Sorts) > 0 {
		sort := bson.D{}
		for _, s := range c.Sorts {
			dir := 1
			if s.Descending {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	if c.Offset > 0 {
		opts.SetSkip(c.Offset)
	}
	if c.Limit > 0 {
		opts.SetLimit(c.Limit)
	}
	return opts
}

// Matches evaluates the filter in memory
func (c *Criteria) Matches(doc map[string]interface{}) bool {
	if c == nil || c.Filter == nil {
		return true
	}
	return c.Filter.Match(doc)
}

// Less reports whether doc a sorts before doc b under the criteria's sort keys
func (c *Criteria) Less(a, b map[string]interface{}) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Sorts {
		cmp := compareValues(a[s.Field], b[s.Field])
		if cmp == 0 {
			continue
		}
		if s.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

// Window applies offset and limit to a slice length, returning the bounds.
// Bounds are computed in int64 so huge limits or offsets cannot overflow.
func (c *Criteria) Window(n int) (int, int) {
	if c == nil {
		return 0, n
	}
	total := int64(n)
	start := min(max(c.Offset, 0), total)
	end := total
	if c.Limit > 0 && c.Limit < total-start {
		end = start + c.Limit
	}
	return int(start), int(end)
}

func compareValues(a, b interface{}) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return 0
}
