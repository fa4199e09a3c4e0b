package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodCard         = "card"
	MethodMobileMoney  = "mobile_money"
	MethodCredit       = "credit"
	MethodOther        = "other"
)

var knownMethods = map[string]bool{
	MethodCash:         true,
	MethodBankTransfer: true,
	MethodCard:         true,
	MethodMobileMoney:  true,
	MethodCredit:       true,
	MethodOther:        true,
}

// PaymentSplit is one declared portion of a transaction total.
type PaymentSplit struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// Transaction is a settled sale. A transaction holds 0..N splits; with no
// splits the whole total goes to the declared single method.
type Transaction struct {
	ID            string          `json:"id"`
	OutletID      string          `json:"outlet_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Splits        []PaymentSplit  `json:"splits,omitempty"`
}

// Transaction statuses
const (
	StatusCompleted = "completed"
	StatusVoided    = "voided"
	StatusRefunded  = "refunded"
)

// NormalizeMethod lowercases and trims a method name; blank or unknown
// methods default to cash.
func NormalizeMethod(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	if !knownMethods[m] {
		return MethodCash
	}
	return m
}

// NormalizeSplits normalizes method names and discards non-positive
// amounts. Discarded splits are never propagated.
func NormalizeSplits(splits []PaymentSplit) []PaymentSplit {
	out := make([]PaymentSplit, 0, len(splits))
	for _, s := range splits {
		if s.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		out = append(out, PaymentSplit{
			Method:    NormalizeMethod(s.Method),
			Amount:    s.Amount,
			Reference: strings.TrimSpace(s.Reference),
		})
	}
	return out
}

// TransactionRepository defines the contract for settlement persistence.
type TransactionRepository interface {
	CreateSettlement(ctx context.Context, txn Transaction) error
	FindByID(ctx context.Context, outletID, transactionID string) (*Transaction, error)
	SplitsBetween(ctx context.Context, outletID string, from, to time.Time) ([]PaymentSplit, error)
}
