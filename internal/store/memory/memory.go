// Package memory is an in-memory implementation of the document-table store
// used as a test double. It understands the same filter, ordering and paging
// semantics as the Postgres-backed store and can optionally enforce a fixed
// column set per table so tests can simulate a lagging schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veloretail/backoffice/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	tables  map[string][]store.Row
	columns map[string]map[string]bool
}

func New() *Store {
	return &Store{
		tables:  make(map[string][]store.Row),
		columns: make(map[string]map[string]bool),
	}
}

// SetColumns pins the allowed column set for a table. Writes carrying any
// other column fail with a Postgres-shaped unknown-column error, which is
// how tests exercise schema drift.
func (s *Store) SetColumns(table string, cols ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	allowed := make(map[string]bool, len(cols))
	for _, c := range cols {
		allowed[c] = true
	}
	s.columns[table] = allowed
}

// Rows returns a copy of the table contents, for assertions.
func (s *Store) Rows(table string) []store.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Row, len(s.tables[table]))
	for i, r := range s.tables[table] {
		out[i] = r.Clone()
	}
	return out
}

func (s *Store) Select(_ context.Context, table string, q store.Query) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Row
	for _, row := range s.tables[table] {
		if matchesAll(row, q.Filters) {
			out = append(out, row.Clone())
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := compareValues(out[i][q.OrderBy], out[j][q.OrderBy]) < 0
			if q.Descending {
				return !less
			}
			return less
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, table string, rows []store.Row) ([]store.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkColumns(table, rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		s.tables[table] = append(s.tables[table], r.Clone())
	}
	return rows, nil
}

func (s *Store) Update(_ context.Context, table string, filters []store.Filter, changes store.Row) ([]store.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkColumns(table, []store.Row{changes}); err != nil {
		return nil, err
	}
	var updated []store.Row
	for _, row := range s.tables[table] {
		if matchesAll(row, filters) {
			for k, v := range changes {
				row[k] = v
			}
			updated = append(updated, row.Clone())
		}
	}
	return updated, nil
}

func (s *Store) Upsert(_ context.Context, table string, rows []store.Row, conflictColumns ...string) ([]store.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkColumns(table, rows); err != nil {
		return nil, err
	}
	for _, incoming := range rows {
		replaced := false
		for _, existing := range s.tables[table] {
			if len(conflictColumns) > 0 && sameKey(existing, incoming, conflictColumns) {
				for k, v := range incoming {
					existing[k] = v
				}
				replaced = true
				break
			}
		}
		if !replaced {
			s.tables[table] = append(s.tables[table], incoming.Clone())
		}
	}
	return rows, nil
}

func (s *Store) Delete(_ context.Context, table string, filters []store.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tables[table][:0]
	for _, row := range s.tables[table] {
		if !matchesAll(row, filters) {
			kept = append(kept, row)
		}
	}
	s.tables[table] = kept
	return nil
}

func (s *Store) checkColumns(table string, rows []store.Row) error {
	allowed, restricted := s.columns[table]
	if !restricted {
		return nil
	}
	for _, r := range rows {
		for col := range r {
			if !allowed[col] {
				return fmt.Errorf(`pq: column %q of relation %q does not exist`, col, table)
			}
		}
	}
	return nil
}

func sameKey(a, b store.Row, conflictColumns []string) bool {
	for _, col := range conflictColumns {
		av, aok := a[col]
		bv, bok := b[col]
		if !aok || !bok || compareValues(av, bv) != 0 {
			return false
		}
	}
	return true
}

func matchesAll(row store.Row, filters []store.Filter) bool {
	for _, f := range filters {
		if !matches(row, f) {
			return false
		}
	}
	return true
}

func matches(row store.Row, f store.Filter) bool {
	val, ok := row[f.Column]
	if !ok {
		return false
	}
	switch f.Op {
	case store.OpEq:
		return compareValues(val, f.Value) == 0
	case store.OpNeq:
		return compareValues(val, f.Value) != 0
	case store.OpGt:
		return compareValues(val, f.Value) > 0
	case store.OpGte:
		return compareValues(val, f.Value) >= 0
	case store.OpLt:
		return compareValues(val, f.Value) < 0
	case store.OpLte:
		return compareValues(val, f.Value) <= 0
	case store.OpIn:
		if items, ok := f.Value.([]any); ok {
			for _, item := range items {
				if compareValues(val, item) == 0 {
					return true
				}
			}
		}
		if items, ok := f.Value.([]string); ok {
			for _, item := range items {
				if compareValues(val, item) == 0 {
					return true
				}
			}
		}
		return false
	case store.OpLike:
		pattern, _ := f.Value.(string)
		needle := strings.Trim(pattern, "%")
		haystack, _ := val.(string)
		switch {
		case strings.HasPrefix(pattern, "%") && strings.HasSuffix(pattern, "%"):
			return strings.Contains(haystack, needle)
		case strings.HasSuffix(pattern, "%"):
			return strings.HasPrefix(haystack, needle)
		case strings.HasPrefix(pattern, "%"):
			return strings.HasSuffix(haystack, needle)
		default:
			return haystack == pattern
		}
	default:
		return false
	}
}

func compareValues(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if ad, ok := toDecimal(a); ok {
		if bd, ok := toDecimal(b); ok {
			return ad.Cmp(bd)
		}
	}
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	return strings.Compare(as, bs)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}
