package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAllocateNoSplits(t *testing.T) {
	alloc := Allocate(dec("25000"), "bank_transfer", nil)
	if !alloc.Reconciled {
		t.Error("Reconciled = false")
	}
	if got := alloc.Amounts["bank_transfer"]; !got.Equal(dec("25000")) {
		t.Errorf("bank_transfer = %s, want 25000", got)
	}
}

func TestAllocateUnknownMethodFallsBackToCash(t *testing.T) {
	alloc := Allocate(dec("100"), "barter", nil)
	if got := alloc.Amounts[MethodCash]; !got.Equal(dec("100")) {
		t.Errorf("Amounts = %v, want full total under cash", alloc.Amounts)
	}
}

func TestAllocateSingleSplitTakesFullTotal(t *testing.T) {
	alloc := Allocate(dec("100.50"), "cash", []PaymentSplit{
		{Method: "card", Amount: dec("90")},
	})
	if !alloc.Reconciled {
		t.Error("Reconciled = false")
	}
	// A lone split's declared amount is ignored; it carries the whole sale.
	if got := alloc.Amounts["card"]; !got.Equal(dec("100.50")) {
		t.Errorf("card = %s, want 100.50", got)
	}
}

func TestAllocateFoldsRoundingRemainder(t *testing.T) {
	alloc := Allocate(dec("15000.00"), "cash", []PaymentSplit{
		{Method: "cash", Amount: dec("10000.00")},
		{Method: "card", Amount: dec("4999.99")},
	})
	if !alloc.Reconciled {
		t.Fatalf("Reconciled = false, remainder %s", alloc.Remainder)
	}
	if got := alloc.Amounts["cash"]; !got.Equal(dec("10000.01")) {
		t.Errorf("cash = %s, want 10000.01", got)
	}
	if got := alloc.Amounts["card"]; !got.Equal(dec("4999.99")) {
		t.Errorf("card = %s, want 4999.99", got)
	}

	sum := decimal.Zero
	for _, amount := range alloc.Amounts {
		sum = sum.Add(amount)
	}
	if !sum.Equal(dec("15000.00")) {
		t.Errorf("amounts sum to %s, want exactly the total", sum)
	}
}

func TestAllocateRemainderBeyondTolerance(t *testing.T) {
	alloc := Allocate(dec("15000.00"), "cash", []PaymentSplit{
		{Method: "cash", Amount: dec("10000.00")},
		{Method: "card", Amount: dec("4000.00")},
	})
	if alloc.Reconciled {
		t.Error("Reconciled = true for a 1000.00 gap")
	}
	if !alloc.Remainder.Equal(dec("1000.00")) {
		t.Errorf("Remainder = %s, want 1000.00", alloc.Remainder)
	}
	// Declared amounts are preserved, not corrected.
	if got := alloc.Amounts["cash"]; !got.Equal(dec("10000.00")) {
		t.Errorf("cash = %s, want declared 10000.00", got)
	}
}

func TestAllocateToleranceBoundary(t *testing.T) {
	tests := []struct {
		name           string
		cardAmount     string
		wantReconciled bool
	}{
		{name: "exactly at tolerance", cardAmount: "4999.99", wantReconciled: true},
		{name: "just past tolerance", cardAmount: "4999.98", wantReconciled: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := Allocate(dec("15000.00"), "cash", []PaymentSplit{
				{Method: "cash", Amount: dec("10000.00")},
				{Method: "card", Amount: dec(tt.cardAmount)},
			})
			if alloc.Reconciled != tt.wantReconciled {
				t.Errorf("Reconciled = %v, want %v (remainder %s)",
					alloc.Reconciled, tt.wantReconciled, alloc.Remainder)
			}
		})
	}
}

func TestAllocateOverpaymentWithinTolerance(t *testing.T) {
	alloc := Allocate(dec("100.00"), "cash", []PaymentSplit{
		{Method: "cash", Amount: dec("50.01")},
		{Method: "card", Amount: dec("50.00")},
	})
	if !alloc.Reconciled {
		t.Fatal("Reconciled = false for a -0.01 remainder")
	}
	if got := alloc.Amounts["cash"]; !got.Equal(dec("50.00")) {
		t.Errorf("cash = %s, want 50.00 after folding", got)
	}
}

func TestAllocateDiscardsNonPositiveSplits(t *testing.T) {
	alloc := Allocate(dec("200"), "cash", []PaymentSplit{
		{Method: "card", Amount: dec("0")},
		{Method: "mobile_money", Amount: dec("-5")},
		{Method: "cash", Amount: dec("199")},
	})
	// Only one effective split remains; it takes the full total.
	if got := alloc.Amounts[MethodCash]; !got.Equal(dec("200")) {
		t.Errorf("Amounts = %v, want cash:200", alloc.Amounts)
	}
}

func TestAllocateMergesDuplicateMethods(t *testing.T) {
	alloc := Allocate(dec("300"), "cash", []PaymentSplit{
		{Method: "cash", Amount: dec("100")},
		{Method: "cash", Amount: dec("50")},
		{Method: "card", Amount: dec("150")},
	})
	if !alloc.Reconciled {
		t.Error("Reconciled = false")
	}
	if got := alloc.Amounts["cash"]; !got.Equal(dec("150")) {
		t.Errorf("cash = %s, want merged 150", got)
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cash", MethodCash},
		{"CARD", MethodCard},
		{"  bank_transfer ", MethodBankTransfer},
		{"", MethodCash},
		{"cheque", MethodCash},
	}
	for _, tt := range tests {
		if got := NormalizeMethod(tt.in); got != tt.want {
			t.Errorf("NormalizeMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
