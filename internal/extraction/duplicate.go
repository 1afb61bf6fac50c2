package extraction

import "strings"

// ExistingInvoice is the key-field subset of a stored invoice that the
// duplicate check needs. The storage layer owns the full records.
type ExistingInvoice struct {
	Supplier    string
	TotalAmount float64
	InvoiceDate string // YYYY-MM-DD
}

// IsDuplicate reports whether the candidate matches any stored invoice
// under the duplicate key: normalized supplier (compared
// case-insensitively), exact total amount, exact invoice date. Invoice
// number, category and the GST breakdown are deliberately not part of
// the key. A true result means the caller must reject the candidate,
// never merge it.
//
// This is a pure predicate over a snapshot of the store; serializing
// check-then-insert is the caller's job.
func IsDuplicate(c *Candidate, existing []ExistingInvoice) bool {
	key := NormalizeSupplier(c.Supplier)
	for _, inv := range existing {
		if inv.TotalAmount != c.TotalAmount {
			continue
		}
		if inv.InvoiceDate != c.InvoiceDate {
			continue
		}
		if strings.EqualFold(key, NormalizeSupplier(inv.Supplier)) {
			return true
		}
	}
	return false
}
