package command

import (
	"context"
	"fmt"
	"testing"

	catalogdomain "github.com/veloretail/backoffice/internal/catalog/domain"
	catalogrepo "github.com/veloretail/backoffice/internal/catalog/repository"
	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/internal/inventory/repository"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/internal/store/memory"
)

// brokenQuantityRepo fails quantity updates for one product, which is how
// the rollback path gets exercised.
type brokenQuantityRepo struct {
	catalogdomain.ProductRepository
	failProductID string
	calls         int
}

func (r *brokenQuantityRepo) UpdateQuantity(ctx context.Context, outletID, productID string, qty int64) error {
	r.calls++
	if productID == r.failProductID {
		return fmt.Errorf("simulated write failure for %s", productID)
	}
	return r.ProductRepository.UpdateQuantity(ctx, outletID, productID, qty)
}

func seedStocktakeProducts(t *testing.T, products catalogdomain.ProductRepository, quantities map[string]int64) {
	t.Helper()
	for id, qty := range quantities {
		err := products.Create(context.Background(), &catalogdomain.Product{
			ID:             id,
			OutletID:       "outlet-1",
			Name:           "product " + id,
			QuantityOnHand: qty,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestCommitStocktakeSuccess(t *testing.T) {
	st := memory.New()
	writer := store.NewAdaptiveWriter(st)
	movements := repository.NewStoreMovementRepository(st, writer)
	sessions := repository.NewStoreSessionRepository(st, writer)
	products := catalogrepo.NewStoreProductRepository(st, writer)
	seedStocktakeProducts(t, products, map[string]int64{"p1": 50, "p2": 20, "p3": 7})

	handler := NewCommitStocktakeHandler(sessions, movements, products)
	result, err := handler.Handle(context.Background(), CommitStocktakeCommand{
		OutletID: "outlet-1",
		Notes:    "monthly count",
		Counts: []domain.StocktakeCount{
			{ProductID: "p1", CountedQty: 47},
			{ProductID: "p2", CountedQty: 20},
			{ProductID: "p3", CountedQty: 9},
		},
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if result.Status != domain.StocktakeCommitted {
		t.Errorf("status = %q, want committed", result.Status)
	}
	// p2 matched the count, so only two adjustments.
	if len(result.Adjustments) != 2 {
		t.Fatalf("adjustments = %+v, want 2", result.Adjustments)
	}

	session, err := sessions.FindByID(context.Background(), "outlet-1", result.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if session.Status != domain.StocktakeCommitted {
		t.Errorf("session status = %q, want committed", session.Status)
	}
	if session.CompletedAt == nil {
		t.Error("session CompletedAt not set")
	}

	for id, want := range map[string]int64{"p1": 47, "p2": 20, "p3": 9} {
		p, err := products.FindByID(context.Background(), "outlet-1", id)
		if err != nil {
			t.Fatal(err)
		}
		if p.QuantityOnHand != want {
			t.Errorf("product %s qty = %d, want %d", id, p.QuantityOnHand, want)
		}
	}

	ledger := st.Rows("stock_movements")
	if len(ledger) != 2 {
		t.Fatalf("ledger has %d movements, want 2", len(ledger))
	}
	for _, row := range ledger {
		if row.String("movement_type") != string(domain.MovementStocktake) {
			t.Errorf("movement type = %q", row.String("movement_type"))
		}
		if row.String("reference_id") != result.SessionID {
			t.Errorf("movement reference = %q, want session id", row.String("reference_id"))
		}
	}
}

func TestCommitStocktakeRollsBackOnFailure(t *testing.T) {
	st := memory.New()
	writer := store.NewAdaptiveWriter(st)
	movements := repository.NewStoreMovementRepository(st, writer)
	sessions := repository.NewStoreSessionRepository(st, writer)
	real := catalogrepo.NewStoreProductRepository(st, writer)
	seedStocktakeProducts(t, real, map[string]int64{"p1": 50, "p2": 20})
	broken := &brokenQuantityRepo{ProductRepository: real, failProductID: "p2"}

	handler := NewCommitStocktakeHandler(sessions, movements, broken)
	_, err := handler.Handle(context.Background(), CommitStocktakeCommand{
		OutletID: "outlet-1",
		Counts: []domain.StocktakeCount{
			{ProductID: "p1", CountedQty: 45},
			{ProductID: "p2", CountedQty: 25},
		},
	})
	if err == nil {
		t.Fatal("Handle() expected failure")
	}

	// p1 was applied before the failure and must be restored to its
	// snapshot value.
	p1, ferr := real.FindByID(context.Background(), "outlet-1", "p1")
	if ferr != nil {
		t.Fatal(ferr)
	}
	if p1.QuantityOnHand != 50 {
		t.Errorf("p1 qty = %d, want snapshot value 50", p1.QuantityOnHand)
	}

	// No orphan movements survive the rollback.
	if ledger := st.Rows("stock_movements"); len(ledger) != 0 {
		t.Errorf("ledger has %d movements after rollback, want 0", len(ledger))
	}

	sessionRows := st.Rows("stocktake_sessions")
	if len(sessionRows) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessionRows))
	}
	if got := sessionRows[0].String("status"); got != domain.StocktakeRolledBack {
		t.Errorf("session status = %q, want rolled_back", got)
	}
}

func TestCommitStocktakeUnknownProduct(t *testing.T) {
	st := memory.New()
	writer := store.NewAdaptiveWriter(st)
	movements := repository.NewStoreMovementRepository(st, writer)
	sessions := repository.NewStoreSessionRepository(st, writer)
	products := catalogrepo.NewStoreProductRepository(st, writer)

	handler := NewCommitStocktakeHandler(sessions, movements, products)
	_, err := handler.Handle(context.Background(), CommitStocktakeCommand{
		OutletID: "outlet-1",
		Counts:   []domain.StocktakeCount{{ProductID: "ghost", CountedQty: 5}},
	})
	if err == nil {
		t.Fatal("Handle() expected error for unknown product")
	}
	// Validation failures happen before the session is even created.
	if got := len(st.Rows("stocktake_sessions")); got != 0 {
		t.Errorf("got %d sessions, want 0", got)
	}
}

func TestCommitStocktakeValidation(t *testing.T) {
	st := memory.New()
	writer := store.NewAdaptiveWriter(st)
	handler := NewCommitStocktakeHandler(
		repository.NewStoreSessionRepository(st, writer),
		repository.NewStoreMovementRepository(st, writer),
		catalogrepo.NewStoreProductRepository(st, writer),
	)

	tests := []struct {
		name string
		cmd  CommitStocktakeCommand
	}{
		{name: "missing outlet", cmd: CommitStocktakeCommand{Counts: []domain.StocktakeCount{{ProductID: "p1"}}}},
		{name: "no counts", cmd: CommitStocktakeCommand{OutletID: "outlet-1"}},
		{name: "negative count", cmd: CommitStocktakeCommand{OutletID: "outlet-1", Counts: []domain.StocktakeCount{{ProductID: "p1", CountedQty: -1}}}},
		{name: "empty product id", cmd: CommitStocktakeCommand{OutletID: "outlet-1", Counts: []domain.StocktakeCount{{CountedQty: 3}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := handler.Handle(context.Background(), tt.cmd); err == nil {
				t.Error("Handle() expected error")
			}
		})
	}
}
