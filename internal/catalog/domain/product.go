package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry holding the authoritative live stock level.
// QuantityOnHand is integer base units and is mutated only by the inventory
// ledger paths (receiving, adjustment, stocktake), never edited directly.
type Product struct {
	ID             string          `json:"id"`
	OutletID       string          `json:"outlet_id"`
	Name           string          `json:"name"`
	QuantityOnHand int64           `json:"quantity_on_hand"`
	ReorderLevel   int64           `json:"reorder_level"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	FindByID(ctx context.Context, outletID, productID string) (*Product, error)
	FindByIDs(ctx context.Context, outletID string, productIDs []string) (map[string]Product, error)
	FindAll(ctx context.Context, outletID string, limit, offset int) ([]Product, error)
	Create(ctx context.Context, product *Product) error
	UpdateQuantity(ctx context.Context, outletID, productID string, quantity int64) error
}
