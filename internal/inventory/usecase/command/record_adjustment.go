package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/veloretail/backoffice/internal/catalog/domain"
	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/internal/store"
)

// RecordAdjustmentCommand is a manual stock correction.
type RecordAdjustmentCommand struct {
	OutletID  string
	ProductID string
	Delta     int64
	Reason    string
}

// RecordAdjustmentHandler appends an adjustment movement and updates the
// live quantity.
type RecordAdjustmentHandler struct {
	movements domain.MovementRepository
	products  catalogdomain.ProductRepository
	now       func() time.Time
}

func NewRecordAdjustmentHandler(movements domain.MovementRepository, products catalogdomain.ProductRepository) *RecordAdjustmentHandler {
	return &RecordAdjustmentHandler{movements: movements, products: products, now: time.Now}
}

// Handle executes the adjustment.
func (h *RecordAdjustmentHandler) Handle(ctx context.Context, cmd RecordAdjustmentCommand) (*domain.StockMovement, error) {
	if cmd.OutletID == "" {
		return nil, fmt.Errorf("outlet_id is required")
	}
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.Delta == 0 {
		return nil, fmt.Errorf("adjustment delta must be non-zero")
	}

	product, err := h.products.FindByID(ctx, cmd.OutletID, cmd.ProductID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("product %s not found in outlet %s", cmd.ProductID, cmd.OutletID)
		}
		return nil, err
	}

	notes := ""
	if cmd.Reason != "" {
		notes = domain.UpsertMarker("", "Reason", cmd.Reason)
	}

	movement := domain.StockMovement{
		ID:             uuid.NewString(),
		OutletID:       cmd.OutletID,
		ProductID:      cmd.ProductID,
		Type:           domain.MovementAdjustment,
		QuantityChange: cmd.Delta,
		ReferenceType:  domain.ReferenceManual,
		ReferenceID:    "",
		Notes:          notes,
		CreatedAt:      h.now().UTC(),
	}
	if err := h.movements.Append(ctx, []domain.StockMovement{movement}); err != nil {
		return nil, err
	}

	if err := h.products.UpdateQuantity(ctx, cmd.OutletID, cmd.ProductID, product.QuantityOnHand+cmd.Delta); err != nil {
		return nil, fmt.Errorf("failed to update stock for product %s: %w", cmd.ProductID, err)
	}
	return &movement, nil
}
