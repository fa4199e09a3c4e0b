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

// ReceiveItem is one requested line in a partial receive batch, quantity in
// ordered units.
type ReceiveItem struct {
	LineID   string
	Quantity int64
}

// ReceiveInvoiceCommand represents a partial vendor-invoice receive request.
type ReceiveInvoiceCommand struct {
	OutletID  string
	InvoiceID string
	StaffName string
	Items     []ReceiveItem
}

// AcceptedLine reports what the reconciler actually accepted for one line.
type AcceptedLine struct {
	LineID         string `json:"line_id"`
	ProductID      string `json:"product_id"`
	Requested      int64  `json:"requested"`
	Accepted       int64  `json:"accepted"`
	BaseUnitsDelta int64  `json:"base_units_delta"`
}

// ReceiveInvoiceResult is the reconciliation outcome.
type ReceiveInvoiceResult struct {
	InvoiceID     string         `json:"invoice_id"`
	InvoiceStatus string         `json:"invoice_status"`
	Accepted      []AcceptedLine `json:"accepted"`
}

// ReceiveInvoiceHandler reconciles a partial receive batch against the stock
// ledger. Already-received quantities are recomputed from movement history on
// every call, so two racing partial receives cannot double-count: the clamp
// against `ordered - already_received` is the authority.
type ReceiveInvoiceHandler struct {
	movements domain.MovementRepository
	invoices  domain.InvoiceRepository
	products  catalogdomain.ProductRepository
	now       func() time.Time
}

func NewReceiveInvoiceHandler(movements domain.MovementRepository, invoices domain.InvoiceRepository, products catalogdomain.ProductRepository) *ReceiveInvoiceHandler {
	return &ReceiveInvoiceHandler{movements: movements, invoices: invoices, products: products, now: time.Now}
}

// Handle executes the receive.
func (h *ReceiveInvoiceHandler) Handle(ctx context.Context, cmd ReceiveInvoiceCommand) (*ReceiveInvoiceResult, error) {
	if cmd.OutletID == "" {
		return nil, fmt.Errorf("outlet_id is required")
	}
	if cmd.InvoiceID == "" {
		return nil, fmt.Errorf("invoice_id is required")
	}
	for _, item := range cmd.Items {
		if item.Quantity < 0 {
			return nil, fmt.Errorf("negative quantity for line %s", item.LineID)
		}
	}

	invoice, err := h.invoices.FindByID(ctx, cmd.OutletID, cmd.InvoiceID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("invoice %s not found", cmd.InvoiceID)
		}
		return nil, err
	}

	linesByID := make(map[string]domain.InvoiceLine, len(invoice.Lines))
	for _, line := range invoice.Lines {
		linesByID[line.ID] = line
	}

	history, err := h.movements.Find(ctx, cmd.OutletID, domain.MovementFilter{
		Type:          domain.MovementReceive,
		ReferenceType: domain.ReferenceInvoice,
		ReferenceID:   cmd.InvoiceID,
	})
	if err != nil {
		return nil, err
	}
	alreadyReceived, _ := domain.ReceivedQuantities(history, invoice.Lines)

	now := h.now().UTC()
	var accepted []AcceptedLine
	var newMovements []domain.StockMovement

	for _, item := range cmd.Items {
		line, ok := linesByID[item.LineID]
		if !ok {
			return nil, fmt.Errorf("invoice line %s does not belong to invoice %s", item.LineID, cmd.InvoiceID)
		}
		if line.ProductID == "" {
			return nil, fmt.Errorf("invoice line %s has no resolvable product", item.LineID)
		}
		if item.Quantity == 0 {
			continue
		}

		remaining := line.OrderedQuantity - alreadyReceived[line.ID]
		if remaining < 0 {
			remaining = 0
		}
		qty := item.Quantity
		if qty > remaining {
			qty = remaining
		}
		if qty == 0 {
			continue
		}

		baseUnits := qty * line.BaseMultiplier()
		newMovements = append(newMovements, domain.StockMovement{
			ID:             uuid.NewString(),
			OutletID:       cmd.OutletID,
			ProductID:      line.ProductID,
			Type:           domain.MovementReceive,
			QuantityChange: baseUnits,
			ReferenceType:  domain.ReferenceInvoice,
			ReferenceID:    cmd.InvoiceID,
			Notes:          domain.InvoiceItemMarker(line.ID),
			CreatedAt:      now,
		})
		accepted = append(accepted, AcceptedLine{
			LineID:         line.ID,
			ProductID:      line.ProductID,
			Requested:      item.Quantity,
			Accepted:       qty,
			BaseUnitsDelta: baseUnits,
		})
		alreadyReceived[line.ID] += qty
	}

	status := invoiceStatus(invoice.Lines, alreadyReceived)

	if len(accepted) == 0 {
		return &ReceiveInvoiceResult{InvoiceID: cmd.InvoiceID, InvoiceStatus: status}, nil
	}

	// Resolve every product before touching stock so an unknown reference
	// fails the whole batch as a validation error.
	productIDs := make([]string, 0, len(accepted))
	for _, a := range accepted {
		productIDs = append(productIDs, a.ProductID)
	}
	products, err := h.products.FindByIDs(ctx, cmd.OutletID, productIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range accepted {
		if _, ok := products[a.ProductID]; !ok {
			return nil, fmt.Errorf("product %s not found in outlet %s", a.ProductID, cmd.OutletID)
		}
	}

	if err := h.movements.Append(ctx, newMovements); err != nil {
		return nil, err
	}

	for _, a := range accepted {
		product := products[a.ProductID]
		product.QuantityOnHand += a.BaseUnitsDelta
		products[a.ProductID] = product
		if err := h.products.UpdateQuantity(ctx, cmd.OutletID, a.ProductID, product.QuantityOnHand); err != nil {
			return nil, fmt.Errorf("failed to update stock for product %s: %w", a.ProductID, err)
		}
	}

	notes := domain.AppendReceivedMarker(invoice.Notes, now, cmd.StaffName)
	if notes != invoice.Notes {
		if err := h.invoices.UpdateNotes(ctx, cmd.OutletID, cmd.InvoiceID, notes); err != nil {
			return nil, err
		}
	}
	if status != invoice.Status {
		if err := h.invoices.UpdateStatus(ctx, cmd.OutletID, cmd.InvoiceID, status); err != nil {
			return nil, err
		}
	}

	return &ReceiveInvoiceResult{
		InvoiceID:     cmd.InvoiceID,
		InvoiceStatus: status,
		Accepted:      accepted,
	}, nil
}

func invoiceStatus(lines []domain.InvoiceLine, received map[string]int64) string {
	complete := true
	any := false
	for _, line := range lines {
		got := received[line.ID]
		if got > 0 {
			any = true
		}
		if got < line.OrderedQuantity {
			complete = false
		}
	}
	switch {
	case complete && len(lines) > 0:
		return domain.InvoiceStatusReceived
	case any:
		return domain.InvoiceStatusPartial
	default:
		return domain.InvoiceStatusPending
	}
}
