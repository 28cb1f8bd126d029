package criteria

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidFilter is returned when a filter carries an unusable field or value
var ErrInvalidFilter = errors.New("invalid filter")

// Filter is a predicate over documents. It can be compiled to a MongoDB query
// or evaluated in memory against a flattened document keyed by bson field name.
type Filter interface {
	BSON() bson.M
	Match(doc map[string]interface{}) bool
	Validate() error
}

// EqualsFilter matches documents whose field equals the value
type EqualsFilter struct {
	Field string
	Value interface{}
}

// Equals creates an equality filter
func Equals(field string, value interface{}) EqualsFilter {
	return EqualsFilter{Field: field, Value: value}
}

// BSON implements Filter
func (f EqualsFilter) BSON() bson.M {
	return bson.M{f.Field: f.Value}
}

// Match implements Filter
func (f EqualsFilter) Match(doc map[string]interface{}) bool {
	value, ok := doc[f.Field]
	if !ok {
		return f.Value == nil
	}
	return equalValues(value, f.Value)
}

// Validate implements Filter
func (f EqualsFilter) Validate() error {
	if f.Field == "" {
		return fmt.Errorf("%w: equals filter without field", ErrInvalidFilter)
	}
	if f.Value == nil {
		return nil
	}
	switch reflect.TypeOf(f.Value).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return fmt.Errorf("%w: unsupported value of type %T for field %q", ErrInvalidFilter, f.Value, f.Field)
	}
	return nil
}

// LikeFilter matches string fields against an SQL-style pattern where
// % matches any run of characters and _ matches exactly one character
type LikeFilter struct {
	Field   string
	Pattern string
}

// Like creates a like filter, e.g. Like("c_url", "/backend/%")
func Like(field, pattern string) LikeFilter {
	return LikeFilter{Field: field, Pattern: pattern}
}

// BSON implements Filter
func (f LikeFilter) BSON() bson.M {
	return bson.M{f.Field: primitive.Regex{Pattern: likeToRegex(f.Pattern)}}
}

// Match implements Filter
func (f LikeFilter) Match(doc map[string]interface{}) bool {
	value, ok := doc[f.Field].(string)
	if !ok {
		return false
	}
	re, err := regexp.Compile(likeToRegex(f.Pattern))
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// Validate implements Filter
func (f LikeFilter) Validate() error {
	if f.Field == "" {
		return fmt.Errorf("%w: like filter without field", ErrInvalidFilter)
	}
	if f.Pattern == "" {
		return fmt.Errorf("%w: empty like pattern for field %q", ErrInvalidFilter, f.Field)
	}
	return nil
}

// AndFilter matches documents matched by every nested filter
type AndFilter struct {
	Filters []Filter
}

// And creates a conjunction of filters
func And(filters ...Filter) AndFilter {
	return AndFilter{Filters: filters}
}

// BSON implements Filter
func (f AndFilter) BSON() bson.M {
	switch len(f.Filters) {
	case 0:
		return bson.M{}
	case 1:
		return f.Filters[0].BSON()
	}

	parts := make([]bson.M, 0, len(f.Filters))
	for _, filter := range f.Filters {
		parts = append(parts, filter.BSON())
	}
	return bson.M{"$and": parts}
}

// Match implements Filter
func (f AndFilter) Match(doc map[string]interface{}) bool {
	for _, filter := range f.Filters {
		if !filter.Match(doc) {
			return false
		}
	}
	return true
}

// Validate implements Filter
func (f AndFilter) Validate() error {
	for _, filter := range f.Filters {
		if filter == nil {
			return fmt.Errorf("%w: nil filter inside and", ErrInvalidFilter)
		}
		if err := filter.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// likeToRegex converts an SQL-style like pattern to an anchored regular expression
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

func equalValues(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
