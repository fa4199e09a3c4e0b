package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloretail/backoffice/internal/payment/domain"
)

// SettleTransactionCommand records a sale's settlement across payment
// methods.
type SettleTransactionCommand struct {
	OutletID      string
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Splits        []domain.PaymentSplit
}

// SettleTransactionResult is the persisted transaction plus its allocation.
type SettleTransactionResult struct {
	Transaction domain.Transaction `json:"transaction"`
	Allocation  domain.Allocation  `json:"allocation"`
}

// SettleTransactionHandler validates, allocates and persists a settlement.
type SettleTransactionHandler struct {
	repo domain.TransactionRepository
	now  func() time.Time
}

func NewSettleTransactionHandler(repo domain.TransactionRepository) *SettleTransactionHandler {
	return &SettleTransactionHandler{repo: repo, now: time.Now}
}

// Handle executes the settlement.
func (h *SettleTransactionHandler) Handle(ctx context.Context, cmd SettleTransactionCommand) (*SettleTransactionResult, error) {
	if cmd.OutletID == "" {
		return nil, fmt.Errorf("outlet_id is required")
	}
	if cmd.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("total_amount must be positive")
	}

	allocation := domain.Allocate(cmd.TotalAmount, cmd.PaymentMethod, cmd.Splits)

	splits := make([]domain.PaymentSplit, 0, len(allocation.Amounts))
	for method, amount := range allocation.Amounts {
		splits = append(splits, domain.PaymentSplit{Method: method, Amount: amount})
	}

	txn := domain.Transaction{
		ID:            uuid.NewString(),
		OutletID:      cmd.OutletID,
		TotalAmount:   cmd.TotalAmount,
		PaymentMethod: domain.NormalizeMethod(cmd.PaymentMethod),
		Status:        domain.StatusCompleted,
		CreatedAt:     h.now().UTC(),
		Splits:        splits,
	}
	if err := h.repo.CreateSettlement(ctx, txn); err != nil {
		return nil, err
	}

	return &SettleTransactionResult{Transaction: txn, Allocation: allocation}, nil
}
