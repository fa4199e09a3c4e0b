package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veloretail/backoffice/internal/payment/domain"
	"github.com/veloretail/backoffice/internal/store"
)

const (
	transactionsTable = "transactions"
	splitsTable       = "payment_splits"
)

// StoreTransactionRepository persists settlements through the generic store.
type StoreTransactionRepository struct {
	store  store.Store
	writer *store.AdaptiveWriter
}

func NewStoreTransactionRepository(s store.Store, w *store.AdaptiveWriter) *StoreTransactionRepository {
	return &StoreTransactionRepository{store: s, writer: w}
}

func (r *StoreTransactionRepository) CreateSettlement(ctx context.Context, txn domain.Transaction) error {
	_, err := r.writer.Write(ctx, store.WriteRequest{
		Table: transactionsTable,
		Op:    store.WriteInsert,
		Rows: []store.Row{{
			"id":             txn.ID,
			"outlet_id":      txn.OutletID,
			"total_amount":   txn.TotalAmount,
			"payment_method": txn.PaymentMethod,
			"status":         txn.Status,
			"created_at":     txn.CreatedAt,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if len(txn.Splits) == 0 {
		return nil
	}
	rows := make([]store.Row, len(txn.Splits))
	for i, s := range txn.Splits {
		rows[i] = store.Row{
			"id":             uuid.NewString(),
			"transaction_id": txn.ID,
			"outlet_id":      txn.OutletID,
			"method":         s.Method,
			"amount":         s.Amount,
			"reference":      s.Reference,
			"created_at":     txn.CreatedAt,
		}
	}
	_, err = r.writer.Write(ctx, store.WriteRequest{
		Table: splitsTable,
		Op:    store.WriteInsert,
		Rows:  rows,
	})
	if err != nil {
		return fmt.Errorf("failed to create payment splits: %w", err)
	}
	return nil
}

func (r *StoreTransactionRepository) FindByID(ctx context.Context, outletID, transactionID string) (*domain.Transaction, error) {
	rows, err := r.store.Select(ctx, transactionsTable, store.Query{
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			store.Eq("id", transactionID),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}

	txn := domain.Transaction{
		ID:            rows[0].String("id"),
		OutletID:      rows[0].String("outlet_id"),
		TotalAmount:   rows[0].Decimal("total_amount"),
		PaymentMethod: rows[0].String("payment_method"),
		Status:        rows[0].String("status"),
		CreatedAt:     rows[0].Time("created_at"),
	}

	splitRows, err := r.store.Select(ctx, splitsTable, store.Query{
		Filters: []store.Filter{store.Eq("transaction_id", transactionID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load splits for transaction %s: %w", transactionID, err)
	}
	for _, row := range splitRows {
		txn.Splits = append(txn.Splits, splitFromRow(row))
	}
	return &txn, nil
}

func (r *StoreTransactionRepository) SplitsBetween(ctx context.Context, outletID string, from, to time.Time) ([]domain.PaymentSplit, error) {
	rows, err := r.store.Select(ctx, splitsTable, store.Query{
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			{Column: "created_at", Op: store.OpGte, Value: from},
			{Column: "created_at", Op: store.OpLt, Value: to},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load payment splits: %w", err)
	}
	out := make([]domain.PaymentSplit, len(rows))
	for i, row := range rows {
		out[i] = splitFromRow(row)
	}
	return out, nil
}

func splitFromRow(row store.Row) domain.PaymentSplit {
	return domain.PaymentSplit{
		Method:    row.String("method"),
		Amount:    row.Decimal("amount"),
		Reference: row.String("reference"),
	}
}
