package command

import (
	"context"
	"testing"
	"time"

	catalogdomain "github.com/veloretail/backoffice/internal/catalog/domain"
	catalogrepo "github.com/veloretail/backoffice/internal/catalog/repository"
	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/internal/inventory/repository"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/internal/store/memory"
)

type receiveFixture struct {
	st        *memory.Store
	handler   *ReceiveInvoiceHandler
	movements domain.MovementRepository
	invoices  domain.InvoiceRepository
	products  catalogdomain.ProductRepository
}

func newReceiveFixture(t *testing.T) *receiveFixture {
	t.Helper()
	st := memory.New()
	writer := store.NewAdaptiveWriter(st)
	movements := repository.NewStoreMovementRepository(st, writer)
	invoices := repository.NewStoreInvoiceRepository(st, writer)
	products := catalogrepo.NewStoreProductRepository(st, writer)
	return &receiveFixture{
		st:        st,
		handler:   NewReceiveInvoiceHandler(movements, invoices, products),
		movements: movements,
		invoices:  invoices,
		products:  products,
	}
}

func (f *receiveFixture) seedProduct(t *testing.T, id string, qty int64) {
	t.Helper()
	err := f.products.Create(context.Background(), &catalogdomain.Product{
		ID:             id,
		OutletID:       "outlet-1",
		Name:           "product " + id,
		QuantityOnHand: qty,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (f *receiveFixture) seedInvoice(t *testing.T, id string, lines ...domain.InvoiceLine) {
	t.Helper()
	_, err := f.st.Insert(context.Background(), "vendor_invoices", []store.Row{{
		"id":         id,
		"outlet_id":  "outlet-1",
		"status":     domain.InvoiceStatusPending,
		"notes":      "",
		"created_at": time.Now().UTC(),
	}})
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range lines {
		_, err := f.st.Insert(context.Background(), "invoice_lines", []store.Row{{
			"id":               line.ID,
			"invoice_id":       id,
			"product_id":       line.ProductID,
			"ordered_quantity": line.OrderedQuantity,
			"unit_multiplier":  line.UnitMultiplier,
		}})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func (f *receiveFixture) productQty(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), "outlet-1", id)
	if err != nil {
		t.Fatal(err)
	}
	return p.QuantityOnHand
}

func TestReceiveInvoicePartialThenClamped(t *testing.T) {
	f := newReceiveFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedInvoice(t, "inv1", domain.InvoiceLine{ID: "l1", ProductID: "p1", OrderedQuantity: 100, UnitMultiplier: 1})

	ctx := context.Background()

	first, err := f.handler.Handle(ctx, ReceiveInvoiceCommand{
		OutletID:  "outlet-1",
		InvoiceID: "inv1",
		StaffName: "Ana",
		Items:     []ReceiveItem{{LineID: "l1", Quantity: 40}},
	})
	if err != nil {
		t.Fatalf("first receive: %v", err)
	}
	if first.InvoiceStatus != domain.InvoiceStatusPartial {
		t.Errorf("first status = %q, want partial", first.InvoiceStatus)
	}
	if got := f.productQty(t, "p1"); got != 40 {
		t.Errorf("after first receive qty = %d, want 40", got)
	}

	// Requesting 70 with only 60 outstanding must clamp, not overfill.
	second, err := f.handler.Handle(ctx, ReceiveInvoiceCommand{
		OutletID:  "outlet-1",
		InvoiceID: "inv1",
		StaffName: "Ana",
		Items:     []ReceiveItem{{LineID: "l1", Quantity: 70}},
	})
	if err != nil {
		t.Fatalf("second receive: %v", err)
	}
	if len(second.Accepted) != 1 || second.Accepted[0].Accepted != 60 {
		t.Fatalf("second accepted = %+v, want 60", second.Accepted)
	}
	if second.InvoiceStatus != domain.InvoiceStatusReceived {
		t.Errorf("second status = %q, want received", second.InvoiceStatus)
	}
	if got := f.productQty(t, "p1"); got != 100 {
		t.Errorf("after second receive qty = %d, want 100", got)
	}

	// A third receive finds nothing outstanding.
	third, err := f.handler.Handle(ctx, ReceiveInvoiceCommand{
		OutletID:  "outlet-1",
		InvoiceID: "inv1",
		StaffName: "Budi",
		Items:     []ReceiveItem{{LineID: "l1", Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("third receive: %v", err)
	}
	if len(third.Accepted) != 0 {
		t.Errorf("third accepted = %+v, want none", third.Accepted)
	}
	if got := f.productQty(t, "p1"); got != 100 {
		t.Errorf("after third receive qty = %d, want 100", got)
	}
}

func TestReceiveInvoiceUnitMultiplier(t *testing.T) {
	f := newReceiveFixture(t)
	f.seedProduct(t, "p1", 5)
	f.seedInvoice(t, "inv1", domain.InvoiceLine{ID: "l1", ProductID: "p1", OrderedQuantity: 10, UnitMultiplier: 12})

	result, err := f.handler.Handle(context.Background(), ReceiveInvoiceCommand{
		OutletID:  "outlet-1",
		InvoiceID: "inv1",
		StaffName: "Ana",
		Items:     []ReceiveItem{{LineID: "l1", Quantity: 4}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Accepted[0].BaseUnitsDelta != 48 {
		t.Errorf("BaseUnitsDelta = %d, want 48", result.Accepted[0].BaseUnitsDelta)
	}
	if got := f.productQty(t, "p1"); got != 53 {
		t.Errorf("qty = %d, want 53 base units", got)
	}

	// The ledger stores base units; the reconciler must still count 4 of
	// 10 cases as received, leaving 6 outstanding.
	second, err := f.handler.Handle(context.Background(), ReceiveInvoiceCommand{
		OutletID:  "outlet-1",
		InvoiceID: "inv1",
		StaffName: "Ana",
		Items:     []ReceiveItem{{LineID: "l1", Quantity: 10}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.Accepted[0].Accepted != 6 {
		t.Errorf("second accepted = %d, want 6", second.Accepted[0].Accepted)
	}
}

func TestReceiveInvoiceWritesMarkers(t *testing.T) {
	f := newReceiveFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedInvoice(t, "inv1", domain.InvoiceLine{ID: "l1", ProductID: "p1", OrderedQuantity: 10, UnitMultiplier: 1})

	f.handler.now = func() time.Time { return time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC) }

	if _, err := f.handler.Handle(context.Background(), ReceiveInvoiceCommand{
		OutletID:  "outlet-1",
		InvoiceID: "inv1",
		StaffName: "Ana",
		Items:     []ReceiveItem{{LineID: "l1", Quantity: 3}},
	}); err != nil {
		t.Fatal(err)
	}

	movements := f.st.Rows("stock_movements")
	if len(movements) != 1 {
		t.Fatalf("got %d movements, want 1", len(movements))
	}
	lineID, ok := domain.ParseInvoiceItemMarker(movements[0].String("notes"))
	if !ok || lineID != "l1" {
		t.Errorf("movement notes %q missing line marker", movements[0].String("notes"))
	}

	invoice, err := f.invoices.FindByID(context.Background(), "outlet-1", "inv1")
	if err != nil {
		t.Fatal(err)
	}
	if invoice.Notes != "[Received on 2026-04-02 by Ana]" {
		t.Errorf("invoice notes = %q", invoice.Notes)
	}
	if invoice.Status != domain.InvoiceStatusPartial {
		t.Errorf("invoice status = %q, want partial", invoice.Status)
	}
}

func TestReceiveInvoiceValidation(t *testing.T) {
	f := newReceiveFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedInvoice(t, "inv1", domain.InvoiceLine{ID: "l1", ProductID: "p1", OrderedQuantity: 10, UnitMultiplier: 1})

	tests := []struct {
		name string
		cmd  ReceiveInvoiceCommand
	}{
		{
			name: "missing outlet",
			cmd:  ReceiveInvoiceCommand{InvoiceID: "inv1"},
		},
		{
			name: "unknown invoice",
			cmd:  ReceiveInvoiceCommand{OutletID: "outlet-1", InvoiceID: "nope"},
		},
		{
			name: "negative quantity",
			cmd: ReceiveInvoiceCommand{
				OutletID: "outlet-1", InvoiceID: "inv1",
				Items: []ReceiveItem{{LineID: "l1", Quantity: -1}},
			},
		},
		{
			name: "foreign line",
			cmd: ReceiveInvoiceCommand{
				OutletID: "outlet-1", InvoiceID: "inv1",
				Items: []ReceiveItem{{LineID: "other", Quantity: 1}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.handler.Handle(context.Background(), tt.cmd); err == nil {
				t.Error("Handle() expected error")
			}
		})
	}

	if got := len(f.st.Rows("stock_movements")); got != 0 {
		t.Errorf("validation failures appended %d movements", got)
	}
}
