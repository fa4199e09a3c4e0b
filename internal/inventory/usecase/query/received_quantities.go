package query

import (
	"context"
	"fmt"

	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/internal/store"
)

// ReceivedQuantitiesQuery asks how much of each invoice line has been
// received so far, derived from ledger history.
type ReceivedQuantitiesQuery struct {
	OutletID  string
	InvoiceID string
}

// ReceivedQuantitiesResult maps line id to received quantity in ordered
// units. HasActivity reports whether any receive movement references the
// invoice at all.
type ReceivedQuantitiesResult struct {
	Received    map[string]int64 `json:"received"`
	HasActivity bool             `json:"has_activity"`
}

// ReceivedQuantitiesHandler handles the received-quantities query.
type ReceivedQuantitiesHandler struct {
	movements domain.MovementRepository
	invoices  domain.InvoiceRepository
}

func NewReceivedQuantitiesHandler(movements domain.MovementRepository, invoices domain.InvoiceRepository) *ReceivedQuantitiesHandler {
	return &ReceivedQuantitiesHandler{movements: movements, invoices: invoices}
}

// Handle executes the query.
func (h *ReceivedQuantitiesHandler) Handle(ctx context.Context, q ReceivedQuantitiesQuery) (*ReceivedQuantitiesResult, error) {
	if q.OutletID == "" {
		return nil, fmt.Errorf("outlet_id is required")
	}
	if q.InvoiceID == "" {
		return nil, fmt.Errorf("invoice_id is required")
	}

	invoice, err := h.invoices.FindByID(ctx, q.OutletID, q.InvoiceID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("invoice %s not found", q.InvoiceID)
		}
		return nil, err
	}

	history, err := h.movements.Find(ctx, q.OutletID, domain.MovementFilter{
		Type:          domain.MovementReceive,
		ReferenceType: domain.ReferenceInvoice,
		ReferenceID:   q.InvoiceID,
	})
	if err != nil {
		return nil, err
	}

	received, hasActivity := domain.ReceivedQuantities(history, invoice.Lines)
	return &ReceivedQuantitiesResult{Received: received, HasActivity: hasActivity}, nil
}
