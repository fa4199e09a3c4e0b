package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/internal/store"
)

const (
	movementsTable = "stock_movements"
	invoicesTable  = "vendor_invoices"
	linesTable     = "invoice_lines"
	sessionsTable  = "stocktake_sessions"
)

// StoreMovementRepository is the ledger's persistence layer over the generic
// document-table store.
type StoreMovementRepository struct {
	store  store.Store
	writer *store.AdaptiveWriter
}

func NewStoreMovementRepository(s store.Store, w *store.AdaptiveWriter) *StoreMovementRepository {
	return &StoreMovementRepository{store: s, writer: w}
}

// Append writes ledger rows. No quantity validation happens here; the
// reconciler and committer own the semantics of what gets appended.
func (r *StoreMovementRepository) Append(ctx context.Context, movements []domain.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	rows := make([]store.Row, len(movements))
	for i, mv := range movements {
		rows[i] = movementToRow(mv)
	}
	_, err := r.writer.Write(ctx, store.WriteRequest{
		Table: movementsTable,
		Op:    store.WriteInsert,
		Rows:  rows,
	})
	if err != nil {
		return fmt.Errorf("failed to append stock movements: %w", err)
	}
	return nil
}

func (r *StoreMovementRepository) Find(ctx context.Context, outletID string, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	filters := []store.Filter{store.Eq("outlet_id", outletID)}
	if filter.ProductID != "" {
		filters = append(filters, store.Eq("product_id", filter.ProductID))
	}
	if filter.Type != "" {
		filters = append(filters, store.Eq("movement_type", string(filter.Type)))
	}
	if filter.ReferenceType != "" {
		filters = append(filters, store.Eq("reference_type", filter.ReferenceType))
	}
	if filter.ReferenceID != "" {
		filters = append(filters, store.Eq("reference_id", filter.ReferenceID))
	}

	rows, err := r.store.Select(ctx, movementsTable, store.Query{
		Filters:    filters,
		OrderBy:    "created_at",
		Descending: true,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load stock movements: %w", err)
	}

	out := make([]domain.StockMovement, len(rows))
	for i, row := range rows {
		out[i] = movementFromRow(row)
	}
	return out, nil
}

func (r *StoreMovementRepository) DeleteByIDs(ctx context.Context, outletID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.store.Delete(ctx, movementsTable, []store.Filter{
		store.Eq("outlet_id", outletID),
		{Column: "id", Op: store.OpIn, Value: ids},
	})
}

// StoreInvoiceRepository loads vendor invoices with their lines.
type StoreInvoiceRepository struct {
	store  store.Store
	writer *store.AdaptiveWriter
}

func NewStoreInvoiceRepository(s store.Store, w *store.AdaptiveWriter) *StoreInvoiceRepository {
	return &StoreInvoiceRepository{store: s, writer: w}
}

func (r *StoreInvoiceRepository) FindByID(ctx context.Context, outletID, invoiceID string) (*domain.VendorInvoice, error) {
	rows, err := r.store.Select(ctx, invoicesTable, store.Query{
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			store.Eq("id", invoiceID),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", invoiceID, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}

	inv := invoiceFromRow(rows[0])

	lineRows, err := r.store.Select(ctx, linesTable, store.Query{
		Filters: []store.Filter{store.Eq("invoice_id", invoiceID)},
		OrderBy: "id",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice lines for %s: %w", invoiceID, err)
	}
	inv.Lines = make([]domain.InvoiceLine, len(lineRows))
	for i, row := range lineRows {
		inv.Lines[i] = lineFromRow(row)
	}
	return &inv, nil
}

func (r *StoreInvoiceRepository) UpdateNotes(ctx context.Context, outletID, invoiceID, notes string) error {
	return r.updateField(ctx, outletID, invoiceID, "notes", notes)
}

func (r *StoreInvoiceRepository) UpdateStatus(ctx context.Context, outletID, invoiceID, status string) error {
	return r.updateField(ctx, outletID, invoiceID, "status", status)
}

func (r *StoreInvoiceRepository) updateField(ctx context.Context, outletID, invoiceID, column string, value any) error {
	_, err := r.writer.Write(ctx, store.WriteRequest{
		Table: invoicesTable,
		Op:    store.WriteUpdate,
		Rows: []store.Row{{
			column:       value,
			"updated_at": time.Now().UTC(),
		}},
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			store.Eq("id", invoiceID),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoiceID, err)
	}
	return nil
}

// StoreSessionRepository persists stocktake sessions. Counts, snapshot and
// movement ids are stored as JSON documents inside the row.
type StoreSessionRepository struct {
	store  store.Store
	writer *store.AdaptiveWriter
}

func NewStoreSessionRepository(s store.Store, w *store.AdaptiveWriter) *StoreSessionRepository {
	return &StoreSessionRepository{store: s, writer: w}
}

func (r *StoreSessionRepository) Create(ctx context.Context, session *domain.StocktakeSession) error {
	row, err := sessionToRow(*session)
	if err != nil {
		return err
	}
	_, err = r.writer.Write(ctx, store.WriteRequest{
		Table: sessionsTable,
		Op:    store.WriteInsert,
		Rows:  []store.Row{row},
	})
	if err != nil {
		return fmt.Errorf("failed to create stocktake session: %w", err)
	}
	return nil
}

func (r *StoreSessionRepository) UpdateStatus(ctx context.Context, sessionID, status string) error {
	changes := store.Row{"status": status}
	if status == domain.StocktakeCommitted || status == domain.StocktakeRolledBack {
		changes["completed_at"] = time.Now().UTC()
	}
	_, err := r.writer.Write(ctx, store.WriteRequest{
		Table:   sessionsTable,
		Op:      store.WriteUpdate,
		Rows:    []store.Row{changes},
		Filters: []store.Filter{store.Eq("id", sessionID)},
	})
	if err != nil {
		return fmt.Errorf("failed to update stocktake session %s: %w", sessionID, err)
	}
	return nil
}

func (r *StoreSessionRepository) FindByID(ctx context.Context, outletID, sessionID string) (*domain.StocktakeSession, error) {
	rows, err := r.store.Select(ctx, sessionsTable, store.Query{
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			store.Eq("id", sessionID),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load stocktake session %s: %w", sessionID, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	session, err := sessionFromRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func movementToRow(mv domain.StockMovement) store.Row {
	return store.Row{
		"id":              mv.ID,
		"outlet_id":       mv.OutletID,
		"product_id":      mv.ProductID,
		"movement_type":   string(mv.Type),
		"quantity_change": mv.QuantityChange,
		"reference_type":  mv.ReferenceType,
		"reference_id":    mv.ReferenceID,
		"notes":           mv.Notes,
		"created_at":      mv.CreatedAt,
	}
}

func movementFromRow(row store.Row) domain.StockMovement {
	return domain.StockMovement{
		ID:             row.String("id"),
		OutletID:       row.String("outlet_id"),
		ProductID:      row.String("product_id"),
		Type:           domain.MovementType(row.String("movement_type")),
		QuantityChange: row.Int("quantity_change"),
		ReferenceType:  row.String("reference_type"),
		ReferenceID:    row.String("reference_id"),
		Notes:          row.String("notes"),
		CreatedAt:      row.Time("created_at"),
	}
}

func invoiceFromRow(row store.Row) domain.VendorInvoice {
	return domain.VendorInvoice{
		ID:            row.String("id"),
		OutletID:      row.String("outlet_id"),
		VendorName:    row.String("vendor_name"),
		InvoiceNumber: row.String("invoice_number"),
		Status:        row.String("status"),
		Notes:         row.String("notes"),
		CreatedAt:     row.Time("created_at"),
	}
}

func lineFromRow(row store.Row) domain.InvoiceLine {
	return domain.InvoiceLine{
		ID:              row.String("id"),
		InvoiceID:       row.String("invoice_id"),
		ProductID:       row.String("product_id"),
		OrderedQuantity: row.Int("ordered_quantity"),
		UnitMultiplier:  row.Int("unit_multiplier"),
	}
}

func sessionToRow(s domain.StocktakeSession) (store.Row, error) {
	counts, err := json.Marshal(s.Counts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stocktake counts: %w", err)
	}
	snapshot, err := json.Marshal(s.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stocktake snapshot: %w", err)
	}
	movementIDs, err := json.Marshal(s.MovementIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stocktake movement ids: %w", err)
	}
	return store.Row{
		"id":           s.ID,
		"outlet_id":    s.OutletID,
		"status":       s.Status,
		"notes":        s.Notes,
		"counts":       string(counts),
		"snapshot":     string(snapshot),
		"movement_ids": string(movementIDs),
		"created_at":   s.CreatedAt,
	}, nil
}

func sessionFromRow(row store.Row) (domain.StocktakeSession, error) {
	s := domain.StocktakeSession{
		ID:        row.String("id"),
		OutletID:  row.String("outlet_id"),
		Status:    row.String("status"),
		Notes:     row.String("notes"),
		CreatedAt: row.Time("created_at"),
	}
	if raw := row.String("counts"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.Counts); err != nil {
			return s, fmt.Errorf("failed to decode stocktake counts: %w", err)
		}
	}
	if raw := row.String("snapshot"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.Snapshot); err != nil {
			return s, fmt.Errorf("failed to decode stocktake snapshot: %w", err)
		}
	}
	if raw := row.String("movement_ids"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.MovementIDs); err != nil {
			return s, fmt.Errorf("failed to decode stocktake movement ids: %w", err)
		}
	}
	if t := row.Time("completed_at"); !t.IsZero() {
		s.CompletedAt = &t
	}
	return s, nil
}
