// Package gormstore implements the generic document-table store on top of
// gorm and Postgres. Models are not mapped here; every table is addressed by
// name and rows travel as column maps, so a lagging schema surfaces as raw
// driver errors for the caller to classify.
package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veloretail/backoffice/internal/store"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Select(ctx context.Context, table string, q store.Query) ([]store.Row, error) {
	tx := s.db.WithContext(ctx).Table(table)
	tx = applyFilters(tx, q.Filters)

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", q.OrderBy, dir))
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]store.Row, len(rows))
	for i, r := range rows {
		out[i] = store.Row(r)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, table string, rows []store.Row) ([]store.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	payload := toMaps(rows)
	if err := s.db.WithContext(ctx).Table(table).Create(&payload).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Update(ctx context.Context, table string, filters []store.Filter, changes store.Row) ([]store.Row, error) {
	tx := applyFilters(s.db.WithContext(ctx).Table(table), filters)
	if err := tx.Updates(map[string]any(changes)).Error; err != nil {
		return nil, err
	}
	return []store.Row{changes}, nil
}

func (s *Store) Upsert(ctx context.Context, table string, rows []store.Row, conflictColumns ...string) ([]store.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := make([]clause.Column, len(conflictColumns))
	for i, c := range conflictColumns {
		cols[i] = clause.Column{Name: c}
	}
	payload := toMaps(rows)
	tx := s.db.WithContext(ctx).Table(table).Clauses(clause.OnConflict{
		Columns:   cols,
		UpdateAll: true,
	})
	if err := tx.Create(&payload).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Delete(ctx context.Context, table string, filters []store.Filter) error {
	tx := applyFilters(s.db.WithContext(ctx).Table(table), filters)
	return tx.Delete(nil).Error
}

func applyFilters(tx *gorm.DB, filters []store.Filter) *gorm.DB {
	for _, f := range filters {
		switch f.Op {
		case store.OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", f.Column), f.Value)
		case store.OpNeq:
			tx = tx.Where(fmt.Sprintf("%s <> ?", f.Column), f.Value)
		case store.OpGt:
			tx = tx.Where(fmt.Sprintf("%s > ?", f.Column), f.Value)
		case store.OpGte:
			tx = tx.Where(fmt.Sprintf("%s >= ?", f.Column), f.Value)
		case store.OpLt:
			tx = tx.Where(fmt.Sprintf("%s < ?", f.Column), f.Value)
		case store.OpLte:
			tx = tx.Where(fmt.Sprintf("%s <= ?", f.Column), f.Value)
		case store.OpIn:
			tx = tx.Where(fmt.Sprintf("%s IN ?", f.Column), f.Value)
		case store.OpLike:
			tx = tx.Where(fmt.Sprintf("%s LIKE ?", f.Column), f.Value)
		}
	}
	return tx
}

func toMaps(rows []store.Row) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = map[string]any(r)
	}
	return out
}
