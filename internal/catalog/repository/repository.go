package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/veloretail/backoffice/internal/catalog/domain"
	"github.com/veloretail/backoffice/internal/store"
)

const productsTable = "products"

// StoreProductRepository persists products through the generic document-table
// store, routing every write through the adaptive writer.
type StoreProductRepository struct {
	store  store.Store
	writer *store.AdaptiveWriter
}

func NewStoreProductRepository(s store.Store, w *store.AdaptiveWriter) *StoreProductRepository {
	return &StoreProductRepository{store: s, writer: w}
}

func (r *StoreProductRepository) FindByID(ctx context.Context, outletID, productID string) (*domain.Product, error) {
	rows, err := r.store.Select(ctx, productsTable, store.Query{
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			store.Eq("id", productID),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	p := fromRow(rows[0])
	return &p, nil
}

func (r *StoreProductRepository) FindByIDs(ctx context.Context, outletID string, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}
	rows, err := r.store.Select(ctx, productsTable, store.Query{
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			{Column: "id", Op: store.OpIn, Value: productIDs},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	out := make(map[string]domain.Product, len(rows))
	for _, row := range rows {
		p := fromRow(row)
		out[p.ID] = p
	}
	return out, nil
}

func (r *StoreProductRepository) FindAll(ctx context.Context, outletID string, limit, offset int) ([]domain.Product, error) {
	rows, err := r.store.Select(ctx, productsTable, store.Query{
		Filters: []store.Filter{store.Eq("outlet_id", outletID)},
		OrderBy: "name",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	out := make([]domain.Product, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out, nil
}

func (r *StoreProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.writer.Write(ctx, store.WriteRequest{
		Table: productsTable,
		Op:    store.WriteInsert,
		Rows:  []store.Row{toRow(*product)},
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *StoreProductRepository) UpdateQuantity(ctx context.Context, outletID, productID string, quantity int64) error {
	_, err := r.writer.Write(ctx, store.WriteRequest{
		Table: productsTable,
		Op:    store.WriteUpdate,
		Rows: []store.Row{{
			"quantity_on_hand": quantity,
			"updated_at":       time.Now().UTC(),
		}},
		Filters: []store.Filter{
			store.Eq("outlet_id", outletID),
			store.Eq("id", productID),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update quantity for product %s: %w", productID, err)
	}
	return nil
}

func toRow(p domain.Product) store.Row {
	return store.Row{
		"id":               p.ID,
		"outlet_id":        p.OutletID,
		"name":             p.Name,
		"quantity_on_hand": p.QuantityOnHand,
		"reorder_level":    p.ReorderLevel,
		"unit_price":       p.UnitPrice,
		"cost_price":       p.CostPrice,
		"created_at":       p.CreatedAt,
		"updated_at":       p.UpdatedAt,
	}
}

func fromRow(row store.Row) domain.Product {
	return domain.Product{
		ID:             row.String("id"),
		OutletID:       row.String("outlet_id"),
		Name:           row.String("name"),
		QuantityOnHand: row.Int("quantity_on_hand"),
		ReorderLevel:   row.Int("reorder_level"),
		UnitPrice:      row.Decimal("unit_price"),
		CostPrice:      row.Decimal("cost_price"),
		CreatedAt:      row.Time("created_at"),
		UpdatedAt:      row.Time("updated_at"),
	}
}
