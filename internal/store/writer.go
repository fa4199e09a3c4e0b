package store

import (
	"context"
	"fmt"

	"github.com/veloretail/backoffice/pkg/logger"
)

// WriteOp enumerates the write operations the adaptive writer supports.
type WriteOp string

const (
	WriteInsert WriteOp = "insert"
	WriteUpdate WriteOp = "update"
	WriteUpsert WriteOp = "upsert"
)

// DefaultMaxWriteAttempts bounds the retry-without-column loop. Each retry
// removes exactly one column, so this is also the most columns a single
// write can shed.
const DefaultMaxWriteAttempts = 16

// WriteRequest describes one write through the adaptive writer. Update uses
// Rows[0] as the change set and Filters as the target; Upsert uses
// ConflictColumns as the key.
type WriteRequest struct {
	Table           string
	Op              WriteOp
	Rows            []Row
	Filters         []Filter
	ConflictColumns []string
}

// WriteResult reports what was persisted and which columns had to be dropped
// to get the write through a lagging schema.
type WriteResult struct {
	Rows           []Row
	RemovedColumns []string
}

// AdaptiveWriter performs inserts, updates and upserts against a store whose
// schema may lag the code. When the store rejects an unknown column that is
// present in the payload, the column is removed from every row and the write
// retried, up to maxAttempts. The data in a removed column is silently
// dropped; this tolerates schema drift but is not a migration substitute.
type AdaptiveWriter struct {
	store       Store
	maxAttempts int
}

// NewAdaptiveWriter creates a writer over the given store.
func NewAdaptiveWriter(s Store) *AdaptiveWriter {
	return &AdaptiveWriter{store: s, maxAttempts: DefaultMaxWriteAttempts}
}

// NewAdaptiveWriterWithAttempts creates a writer with a custom attempt bound.
func NewAdaptiveWriterWithAttempts(s Store, maxAttempts int) *AdaptiveWriter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &AdaptiveWriter{store: s, maxAttempts: maxAttempts}
}

// Write executes the request, retrying without unknown columns.
func (w *AdaptiveWriter) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	rows := cloneRows(req.Rows)
	var removed []string

	var lastErr error
	for attempt := 0; attempt < w.maxAttempts; attempt++ {
		out, err := w.execute(ctx, req, rows)
		if err == nil {
			return WriteResult{Rows: out, RemovedColumns: removed}, nil
		}
		lastErr = err

		class, column := Classify(err)
		if class != ClassMissingColumn || !rowsHaveColumn(rows, column) {
			// Not recoverable by shedding payload; propagate as-is.
			return WriteResult{RemovedColumns: removed}, w.wrap(req, removed, err)
		}

		stripColumn(rows, column)
		removed = append(removed, column)
		logger.Warn(ctx).
			Str("table", req.Table).
			Str("op", string(req.Op)).
			Str("column", column).
			Int("attempt", attempt+1).
			Msg("Removed unknown column from write payload, retrying")
	}

	return WriteResult{RemovedColumns: removed},
		w.wrap(req, removed, fmt.Errorf("write attempts exhausted: %w", lastErr))
}

func (w *AdaptiveWriter) execute(ctx context.Context, req WriteRequest, rows []Row) ([]Row, error) {
	switch req.Op {
	case WriteInsert:
		return w.store.Insert(ctx, req.Table, rows)
	case WriteUpdate:
		if len(rows) == 0 {
			return nil, fmt.Errorf("update on %s requires a change set", req.Table)
		}
		return w.store.Update(ctx, req.Table, req.Filters, rows[0])
	case WriteUpsert:
		return w.store.Upsert(ctx, req.Table, rows, req.ConflictColumns...)
	default:
		return nil, fmt.Errorf("unsupported write op %q", req.Op)
	}
}

func (w *AdaptiveWriter) wrap(req WriteRequest, removed []string, err error) error {
	if len(removed) == 0 {
		return err
	}
	return fmt.Errorf("write to %s failed after removing columns %v: %w", req.Table, removed, err)
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

func rowsHaveColumn(rows []Row, column string) bool {
	for _, r := range rows {
		if _, ok := r[column]; ok {
			return true
		}
	}
	return false
}

func stripColumn(rows []Row, column string) {
	for _, r := range rows {
		delete(r, column)
	}
}
