package domain

import "github.com/shopspring/decimal"

// Tolerance is the largest rounding remainder the allocator will absorb.
var Tolerance = decimal.NewFromFloat(0.01)

// Allocation is the per-method outcome of allocating one transaction total.
type Allocation struct {
	// Amounts maps normalized method name to the allocated amount.
	Amounts map[string]decimal.Decimal `json:"amounts"`
	// Reconciled is false when the declared splits diverge from the total
	// by more than the tolerance. The declared allocations are returned
	// as-is in that case; a discrepancy beyond tolerance is surfaced to
	// reporting, not silently corrected.
	Reconciled bool `json:"reconciled"`
	// Remainder is total minus the declared split sum, zero when folded.
	Remainder decimal.Decimal `json:"remainder"`
}

// Allocate splits a transaction total across payment methods.
//
// With zero or one effective split the whole total goes to that single
// method (falling back to defaultMethod). With two or more splits, a
// remainder within the tolerance is folded into the first split's method so
// the returned amounts sum to exactly the total.
func Allocate(total decimal.Decimal, defaultMethod string, splits []PaymentSplit) Allocation {
	effective := NormalizeSplits(splits)

	if len(effective) == 0 {
		return Allocation{
			Amounts:    map[string]decimal.Decimal{NormalizeMethod(defaultMethod): total},
			Reconciled: true,
			Remainder:  decimal.Zero,
		}
	}
	if len(effective) == 1 {
		return Allocation{
			Amounts:    map[string]decimal.Decimal{effective[0].Method: total},
			Reconciled: true,
			Remainder:  decimal.Zero,
		}
	}

	amounts := make(map[string]decimal.Decimal, len(effective))
	sum := decimal.Zero
	for _, s := range effective {
		amounts[s.Method] = amounts[s.Method].Add(s.Amount)
		sum = sum.Add(s.Amount)
	}

	remainder := total.Sub(sum)
	if remainder.IsZero() {
		return Allocation{Amounts: amounts, Reconciled: true, Remainder: decimal.Zero}
	}
	if remainder.Abs().LessThanOrEqual(Tolerance) {
		first := effective[0].Method
		amounts[first] = amounts[first].Add(remainder)
		return Allocation{Amounts: amounts, Reconciled: true, Remainder: decimal.Zero}
	}
	return Allocation{Amounts: amounts, Reconciled: false, Remainder: remainder}
}
