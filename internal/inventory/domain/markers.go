package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Note markers are a small sub-protocol embedded in free-text notes fields:
// single-line bracketed tags like "[Invoice item: <line-id>]". They survive
// round-trips through systems that only preserve the raw text.

const (
	invoiceItemPrefix = "Invoice item"
	receivedPrefix    = "Received on"
)

var invoiceItemRe = regexp.MustCompile(`\[Invoice item: ([^\]]+)\]`)
var receivedRe = regexp.MustCompile(`\[Received on [^\]]+\]`)

// InvoiceItemMarker builds the line attribution marker carried in receive
// movement notes.
func InvoiceItemMarker(lineID string) string {
	return fmt.Sprintf("[%s: %s]", invoiceItemPrefix, lineID)
}

// ParseInvoiceItemMarker extracts the line id from a movement's notes.
func ParseInvoiceItemMarker(notes string) (string, bool) {
	m := invoiceItemRe.FindStringSubmatch(notes)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ReceivedMarker builds the invoice receiving marker.
func ReceivedMarker(date time.Time, staffName string) string {
	return fmt.Sprintf("[%s %s by %s]", receivedPrefix, date.Format("2006-01-02"), staffName)
}

// HasReceivedMarker reports whether notes already carry a receiving marker,
// regardless of date or staff name.
func HasReceivedMarker(notes string) bool {
	return receivedRe.MatchString(notes)
}

// AppendReceivedMarker adds the receiving marker unless one is already
// present.
func AppendReceivedMarker(notes string, date time.Time, staffName string) string {
	if HasReceivedMarker(notes) {
		return notes
	}
	return appendLine(notes, ReceivedMarker(date, staffName))
}

// UpsertMarker sets a generic "[<Prefix>: value]" marker, replacing any
// existing line that shares the prefix.
func UpsertMarker(notes, prefix, value string) string {
	marker := fmt.Sprintf("[%s: %s]", prefix, value)
	lines := strings.Split(notes, "\n")
	needle := "[" + prefix + ":"

	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, needle) {
			continue
		}
		kept = append(kept, line)
	}
	return appendLine(strings.Join(kept, "\n"), marker)
}

// MarkerValue reads back a generic marker's value.
func MarkerValue(notes, prefix string) (string, bool) {
	re := regexp.MustCompile(`\[` + regexp.QuoteMeta(prefix) + `: ([^\]]+)\]`)
	m := re.FindStringSubmatch(notes)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func appendLine(notes, line string) string {
	notes = strings.TrimRight(notes, "\n")
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
