package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateMatchesAcrossSupplierVariants(t *testing.T) {
	candidate := &Candidate{
		Supplier:    "Acme Pty Ltd",
		TotalAmount: 110.00,
		InvoiceDate: "2024-03-05",
	}
	existing := []ExistingInvoice{
		{Supplier: "ACME", TotalAmount: 110.00, InvoiceDate: "2024-03-05"},
	}

	assert.True(t, IsDuplicate(candidate, existing))
}

func TestIsDuplicateRequiresAllKeyFields(t *testing.T) {
	candidate := &Candidate{
		Supplier:    "Acme Pty Ltd",
		TotalAmount: 110.00,
		InvoiceDate: "2024-03-05",
	}

	tests := []struct {
		name     string
		existing ExistingInvoice
		want     bool
	}{
		{"exact match", ExistingInvoice{"Acme Pty Ltd", 110.00, "2024-03-05"}, true},
		{"different supplier", ExistingInvoice{"Globex", 110.00, "2024-03-05"}, false},
		{"different total", ExistingInvoice{"Acme Pty Ltd", 110.01, "2024-03-05"}, false},
		{"different date", ExistingInvoice{"Acme Pty Ltd", 110.00, "2024-03-06"}, false},
		{"whitespace and case ignored", ExistingInvoice{"  acme   PTY LTD ", 110.00, "2024-03-05"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsDuplicate(candidate, []ExistingInvoice{tt.existing})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDuplicateIgnoresNonKeyFields(t *testing.T) {
	// Invoice number and the GST breakdown are not part of the key: two
	// invoices from the same supplier on the same date for the same
	// total are duplicates regardless.
	candidate := &Candidate{
		Supplier:      "Acme",
		TotalAmount:   55.00,
		InvoiceDate:   "2024-01-31",
		InvoiceNumber: "INV-9",
		GSTAmount:     5.00,
		NetAmount:     50.00,
	}
	existing := []ExistingInvoice{
		{Supplier: "Acme", TotalAmount: 55.00, InvoiceDate: "2024-01-31"},
	}

	assert.True(t, IsDuplicate(candidate, existing))
}

func TestIsDuplicateEmptySet(t *testing.T) {
	candidate := &Candidate{Supplier: "Acme", TotalAmount: 10, InvoiceDate: "2024-01-01"}

	assert.False(t, IsDuplicate(candidate, nil))
	assert.False(t, IsDuplicate(candidate, []ExistingInvoice{}))
}

func TestIsDuplicateScansWholeSet(t *testing.T) {
	candidate := &Candidate{Supplier: "Acme", TotalAmount: 10.00, InvoiceDate: "2024-01-01"}
	existing := []ExistingInvoice{
		{Supplier: "Globex", TotalAmount: 10.00, InvoiceDate: "2024-01-01"},
		{Supplier: "Initech", TotalAmount: 99.00, InvoiceDate: "2023-12-25"},
		{Supplier: "ACME LTD", TotalAmount: 10.00, InvoiceDate: "2024-01-01"},
	}

	assert.True(t, IsDuplicate(candidate, existing))
}
