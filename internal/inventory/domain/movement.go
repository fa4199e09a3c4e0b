package domain

import (
	"context"
	"time"
)

// MovementType classifies a stock movement. The sign of QuantityChange must
// match the direction of the type: receive and return are positive, sale is
// negative, adjustment / transfer / stocktake carry either sign.
type MovementType string

const (
	MovementReceive    MovementType = "receive"
	MovementSale       MovementType = "sale"
	MovementAdjustment MovementType = "adjustment"
	MovementTransfer   MovementType = "transfer"
	MovementStocktake  MovementType = "stocktake"
	MovementReturn     MovementType = "return"
)

// Reference types linking a movement back to its originating document.
const (
	ReferenceInvoice     = "invoice"
	ReferenceTransaction = "transaction"
	ReferenceStocktake   = "stocktake"
	ReferenceManual      = "manual"
)

// Invoice statuses.
const (
	InvoiceStatusPending  = "pending"
	InvoiceStatusPartial  = "partial"
	InvoiceStatusReceived = "received"
)

// Stocktake session statuses.
const (
	StocktakePending    = "pending"
	StocktakeApplying   = "applying"
	StocktakeCommitted  = "committed"
	StocktakeRolledBack = "rolled_back"
)

// StockMovement is one immutable ledger entry. Corrections are new rows,
// never edits; the only deletion path is stocktake rollback compensation.
type StockMovement struct {
	ID             string       `json:"id"`
	OutletID       string       `json:"outlet_id"`
	ProductID      string       `json:"product_id"`
	Type           MovementType `json:"movement_type"`
	QuantityChange int64        `json:"quantity_change"`
	ReferenceType  string       `json:"reference_type"`
	ReferenceID    string       `json:"reference_id"`
	Notes          string       `json:"notes"`
	CreatedAt      time.Time    `json:"created_at"`
}

// VendorInvoice is a vendor delivery document being received against.
type VendorInvoice struct {
	ID            string        `json:"id"`
	OutletID      string        `json:"outlet_id"`
	VendorName    string        `json:"vendor_name"`
	InvoiceNumber string        `json:"invoice_number"`
	Status        string        `json:"status"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
	Lines         []InvoiceLine `json:"lines"`
}

// InvoiceLine is one ordered position. OrderedQuantity is in ordered units;
// UnitMultiplier converts one ordered unit to integer base units.
type InvoiceLine struct {
	ID              string `json:"id"`
	InvoiceID       string `json:"invoice_id"`
	ProductID       string `json:"product_id"`
	OrderedQuantity int64  `json:"ordered_quantity"`
	UnitMultiplier  int64  `json:"unit_multiplier"`
}

// BaseMultiplier returns the unit multiplier, treating missing or invalid
// values as 1.
func (l InvoiceLine) BaseMultiplier() int64 {
	if l.UnitMultiplier < 1 {
		return 1
	}
	return l.UnitMultiplier
}

// StocktakeCount is one counted product in a session.
type StocktakeCount struct {
	ProductID  string `json:"product_id"`
	CountedQty int64  `json:"counted_qty"`
}

// ProductSnapshot records a product's live quantity before the session
// touched it, for rollback.
type ProductSnapshot struct {
	ProductID   string `json:"product_id"`
	PreviousQty int64  `json:"previous_qty"`
}

// StocktakeSession is a full inventory count applied as a batch.
type StocktakeSession struct {
	ID          string            `json:"id"`
	OutletID    string            `json:"outlet_id"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes"`
	Counts      []StocktakeCount  `json:"counts"`
	Snapshot    []ProductSnapshot `json:"snapshot"`
	MovementIDs []string          `json:"movement_ids"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// MovementFilter narrows a movement history query.
type MovementFilter struct {
	ProductID     string
	Type          MovementType
	ReferenceType string
	ReferenceID   string
	Limit         int
	Offset        int
}

// MovementRepository defines the contract for ledger data access.
type MovementRepository interface {
	Append(ctx context.Context, movements []StockMovement) error
	Find(ctx context.Context, outletID string, filter MovementFilter) ([]StockMovement, error)
	// DeleteByIDs exists solely for stocktake rollback compensation.
	DeleteByIDs(ctx context.Context, outletID string, ids []string) error
}

// InvoiceRepository defines the contract for vendor invoice access.
type InvoiceRepository interface {
	FindByID(ctx context.Context, outletID, invoiceID string) (*VendorInvoice, error)
	UpdateNotes(ctx context.Context, outletID, invoiceID, notes string) error
	UpdateStatus(ctx context.Context, outletID, invoiceID, status string) error
}

// SessionRepository defines the contract for stocktake session records.
type SessionRepository interface {
	Create(ctx context.Context, session *StocktakeSession) error
	UpdateStatus(ctx context.Context, sessionID, status string) error
	FindByID(ctx context.Context, outletID, sessionID string) (*StocktakeSession, error)
}
