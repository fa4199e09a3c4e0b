package domain

// ReceivedQuantities derives per-line received quantities (in ordered units)
// from an invoice's receive-movement history. State is recomputed from the
// immutable log on every call, which is what makes repeated partial
// receiving idempotent without a mutable "received so far" counter.
//
// Attribution rule: a movement carrying an "[Invoice item: <line-id>]"
// marker is attributed to that line. Without a marker, the movement is
// attributed by product id only when exactly one line references that
// product; ambiguous movements are left unattributed.
func ReceivedQuantities(movements []StockMovement, lines []InvoiceLine) (map[string]int64, bool) {
	received := make(map[string]int64, len(lines))
	for _, line := range lines {
		received[line.ID] = 0
	}

	linesByID := make(map[string]InvoiceLine, len(lines))
	linesByProduct := make(map[string][]InvoiceLine)
	for _, line := range lines {
		linesByID[line.ID] = line
		linesByProduct[line.ProductID] = append(linesByProduct[line.ProductID], line)
	}

	hasActivity := false
	for _, mv := range movements {
		if mv.Type != MovementReceive {
			continue
		}
		hasActivity = true

		line, ok := attributeMovement(mv, linesByID, linesByProduct)
		if !ok {
			continue
		}

		qty := mv.QuantityChange
		if qty < 0 {
			qty = -qty
		}
		received[line.ID] += qty / line.BaseMultiplier()
	}
	return received, hasActivity
}

func attributeMovement(mv StockMovement, byID map[string]InvoiceLine, byProduct map[string][]InvoiceLine) (InvoiceLine, bool) {
	if lineID, ok := ParseInvoiceItemMarker(mv.Notes); ok {
		line, found := byID[lineID]
		return line, found
	}
	candidates := byProduct[mv.ProductID]
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return InvoiceLine{}, false
}
