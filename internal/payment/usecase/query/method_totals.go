package query

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veloretail/backoffice/internal/payment/domain"
)

// MethodTotalsQuery asks for per-method revenue over a period.
type MethodTotalsQuery struct {
	OutletID string
	From     time.Time
	To       time.Time
}

// MethodTotalsHandler sums persisted payment splits per method.
type MethodTotalsHandler struct {
	repo domain.TransactionRepository
}

func NewMethodTotalsHandler(repo domain.TransactionRepository) *MethodTotalsHandler {
	return &MethodTotalsHandler{repo: repo}
}

// Handle executes the query.
func (h *MethodTotalsHandler) Handle(ctx context.Context, q MethodTotalsQuery) (map[string]decimal.Decimal, error) {
	if q.OutletID == "" {
		return nil, fmt.Errorf("outlet_id is required")
	}
	if !q.To.After(q.From) {
		return nil, fmt.Errorf("invalid period")
	}

	splits, err := h.repo.SplitsBetween(ctx, q.OutletID, q.From, q.To)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, s := range splits {
		method := domain.NormalizeMethod(s.Method)
		totals[method] = totals[method].Add(s.Amount)
	}
	return totals, nil
}
