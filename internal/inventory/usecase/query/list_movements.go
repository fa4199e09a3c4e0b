package query

import (
	"context"
	"fmt"

	"github.com/veloretail/backoffice/internal/inventory/domain"
)

// ListMovementsQuery filters the movement history for an outlet.
type ListMovementsQuery struct {
	OutletID      string
	ProductID     string
	Type          string
	ReferenceType string
	ReferenceID   string
	Limit         int
	Offset        int
}

// ListMovementsHandler handles movement history queries.
type ListMovementsHandler struct {
	movements domain.MovementRepository
}

func NewListMovementsHandler(movements domain.MovementRepository) *ListMovementsHandler {
	return &ListMovementsHandler{movements: movements}
}

// Handle executes the query.
func (h *ListMovementsHandler) Handle(ctx context.Context, q ListMovementsQuery) ([]domain.StockMovement, error) {
	if q.OutletID == "" {
		return nil, fmt.Errorf("outlet_id is required")
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}

	return h.movements.Find(ctx, q.OutletID, domain.MovementFilter{
		ProductID:     q.ProductID,
		Type:          domain.MovementType(q.Type),
		ReferenceType: q.ReferenceType,
		ReferenceID:   q.ReferenceID,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
}
