package store

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantClass  ErrorClass
		wantDetail string
	}{
		{
			name:       "postgres write path",
			err:        errors.New(`pq: column "unit_multiplier" of relation "invoice_lines" does not exist`),
			wantClass:  ClassMissingColumn,
			wantDetail: "unit_multiplier",
		},
		{
			name:       "postgres read path",
			err:        errors.New(`pq: column "reorder_level" does not exist`),
			wantClass:  ClassMissingColumn,
			wantDetail: "reorder_level",
		},
		{
			name:       "schema cache miss",
			err:        errors.New(`Could not find the 'cost_price' column of 'products' in the schema cache`),
			wantClass:  ClassMissingColumn,
			wantDetail: "cost_price",
		},
		{
			name:       "mysql",
			err:        errors.New(`Error 1054: Unknown column 'notes' in 'field list'`),
			wantClass:  ClassMissingColumn,
			wantDetail: "notes",
		},
		{
			name:      "missing table",
			err:       errors.New(`pq: relation "stocktake_sessions" does not exist`),
			wantClass: ClassMissingTable,
		},
		{
			name:      "constraint violation stays opaque",
			err:       errors.New(`pq: duplicate key value violates unique constraint "products_pkey"`),
			wantClass: ClassOpaque,
		},
		{
			name:      "nil",
			err:       nil,
			wantClass: ClassOpaque,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, detail := Classify(tt.err)
			if class != tt.wantClass {
				t.Errorf("Classify() class = %v, want %v", class, tt.wantClass)
			}
			if detail != tt.wantDetail {
				t.Errorf("Classify() detail = %q, want %q", detail, tt.wantDetail)
			}
		})
	}
}
