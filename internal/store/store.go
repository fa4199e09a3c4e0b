package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by repositories when a filtered lookup matches nothing.
	ErrNotFound = errors.New("not found")
)

// Row is one document-table record. Column values hold whatever the backing
// store returned; use the typed accessors when reading.
type Row map[string]any

// FilterOp enumerates the comparison operators the store supports.
type FilterOp string

const (
	OpEq   FilterOp = "eq"
	OpNeq  FilterOp = "neq"
	OpGt   FilterOp = "gt"
	OpGte  FilterOp = "gte"
	OpLt   FilterOp = "lt"
	OpLte  FilterOp = "lte"
	OpIn   FilterOp = "in"
	OpLike FilterOp = "like"
)

// Filter is a single column predicate.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Query describes a filtered, ordered, paged read.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

// Store is the generic document-table abstraction every repository consumes.
// Implementations: gormstore (Postgres via gorm) and memory (test double).
type Store interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, rows []Row) ([]Row, error)
	Update(ctx context.Context, table string, filters []Filter, changes Row) ([]Row, error)
	Upsert(ctx context.Context, table string, rows []Row, conflictColumns ...string) ([]Row, error)
	Delete(ctx context.Context, table string, filters []Filter) error
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String reads a column as string, tolerating nil.
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Int reads a column as int64, tolerating the numeric types drivers return.
func (r Row) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case decimal.Decimal:
		return v.IntPart()
	default:
		return 0
	}
}

// Bool reads a column as bool.
func (r Row) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}

// Time reads a column as time.Time, parsing RFC3339 strings when the store
// returns text.
func (r Row) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// Decimal reads a column as a decimal, tolerating numeric and text storage.
func (r Row) Decimal(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case decimal.Decimal:
		return v
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		return decimal.Zero
	}
}
