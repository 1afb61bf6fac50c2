package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
}

func newTestExtractor() *Extractor {
	return NewExtractor(&Config{Now: fixedClock})
}

func TestExtractEmptyInput(t *testing.T) {
	e := newTestExtractor()

	for _, input := range []string{"", "   \n\t  \n"} {
		c := e.Extract(input)

		assert.Equal(t, UnknownSupplier, c.Supplier)
		assert.Zero(t, c.TotalAmount)
		assert.Zero(t, c.GSTAmount)
		assert.Zero(t, c.NetAmount)
		assert.Empty(t, c.InvoiceNumber)
		assert.Equal(t, "2024-07-15", c.InvoiceDate)
		assert.True(t, c.IsSystemDate)
		assert.True(t, c.LowConfidence)
		assert.Equal(t, input, c.RawText)
	}
}

func TestExtractOrderTotal(t *testing.T) {
	e := newTestExtractor()

	c := e.Extract("Thanks for shopping with us\nOrder Total $123.45\n")

	assert.Equal(t, 123.45, c.TotalAmount)
	assert.Equal(t, 11.22, c.GSTAmount)
	assert.Equal(t, 112.23, c.NetAmount)
	assert.Equal(t, "total-keyword", c.Matched["total_amount"])
}

func TestExtractLabeledTotalBeatsTrailingAmount(t *testing.T) {
	e := newTestExtractor()

	// The generic trailing-$ catch-all would pick up 999.00; the
	// keyword-anchored rule must win because it comes first.
	text := "Line item A  $999.00\nTotal: $100.00 due\n"
	c := e.Extract(text)

	assert.Equal(t, 100.00, c.TotalAmount)
	assert.Equal(t, "total-keyword", c.Matched["total_amount"])
}

func TestExtractAmountVariants(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"amount due", "Amount Due: $42.90\n", 42.90},
		{"grand total", "GRAND TOTAL AUD $88.00\n", 88.00},
		{"thousands separators", "Total: $1,234.56\n", 1234.56},
		{"charged to", "Charged to Visa ending 4242: $56.10\n", 56.10},
		{"amount then due", "$19.95 due by 30 June\n", 19.95},
		{"bare trailing amount", "Something something\n$77.30\n", 77.30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.Extract(tt.text)
			assert.Equal(t, tt.want, c.TotalAmount)
		})
	}
}

func TestExtractNoAmountDefaultsToZero(t *testing.T) {
	e := newTestExtractor()

	c := e.Extract("Vendor: Somebody\nno numbers here\n")

	assert.Zero(t, c.TotalAmount)
	assert.Zero(t, c.GSTAmount)
	assert.Zero(t, c.NetAmount)
	assert.NotContains(t, c.Matched, "total_amount")
}

func TestExtractSupplier(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name     string
		text     string
		want     string
		wantRule string
	}{
		{"known supplier substring", "bunnings warehouse\ntotal $10.00", "Bunnings Warehouse", "known-supplier"},
		{"labeled supplier", "Supplier: Jim's Mowing\nTotal: $50.00", "Jim's Mowing", "labeled-supplier"},
		{"billed by label", "billed by: Acme Services", "Acme Services", "labeled-supplier"},
		{"leading capitalized line", "Northside Plumbing\n123 Example St", "Northside Plumbing", "leading-capitalized"},
		{"legal suffix", "invoice from the team at\nqwik Fasteners Pty Ltd somewhere", "Fasteners Pty Ltd", "legal-suffix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.Extract(tt.text)
			assert.Equal(t, tt.want, c.Supplier)
			assert.Equal(t, tt.wantRule, c.Matched["supplier"])
		})
	}
}

func TestExtractSupplierDefault(t *testing.T) {
	e := newTestExtractor()

	c := e.Extract("lowercase only text with $5.00 total nowhere")

	assert.Equal(t, UnknownSupplier, c.Supplier)
	assert.NotContains(t, c.Matched, "supplier")
}

func TestExtractSupplierCustomTable(t *testing.T) {
	e := NewExtractor(&Config{
		Now:            fixedClock,
		KnownSuppliers: []KnownSupplier{{Match: "MEGACORP", Name: "MegaCorp Pty Ltd"}},
	})

	c := e.Extract("receipt from megacorp store 42")

	assert.Equal(t, "MegaCorp Pty Ltd", c.Supplier)
}

func TestExtractDate(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled day-first", "Date: 05/03/2024", "2024-03-05"},
		{"labeled dashes", "Invoice Date: 5-3-2024", "2024-03-05"},
		{"labeled two-digit year", "Date: 05/03/24", "2024-03-05"},
		{"bare numeric", "paid on 28/02/2023 in store", "2023-02-28"},
		{"iso", "issued 2024-03-05 ok", "2024-03-05"},
		{"long form", "5 March 2024", "2024-03-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.Extract(tt.text)
			assert.Equal(t, tt.want, c.InvoiceDate)
			assert.False(t, c.IsSystemDate)
		})
	}
}

func TestExtractCalendarInvalidDateFallsBack(t *testing.T) {
	e := newTestExtractor()

	c := e.Extract("Date: 31/02/2024\nTotal: $10.00")

	assert.Equal(t, "2024-07-15", c.InvoiceDate)
	assert.True(t, c.IsSystemDate)
}

func TestExtractDateFallsBackToSystemDate(t *testing.T) {
	e := newTestExtractor()

	c := e.Extract("Total: $10.00 and not a date in sight")

	assert.Equal(t, "2024-07-15", c.InvoiceDate)
	assert.True(t, c.IsSystemDate)
	assert.False(t, c.LowConfidence)
}

func TestExtractInvoiceNumber(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"invoice hash", "Invoice #: INV-0042", "INV-0042"},
		{"invoice number word", "Invoice Number: 123456", "123456"},
		{"order hash", "Order #A98765 confirmed", "A98765"},
		{"sales order", "Sales Order No. SO-11", "SO-11"},
		{"ref label", "Ref: 7G-2210", "7G-2210"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.Extract(tt.text)
			assert.Equal(t, tt.want, c.InvoiceNumber)
		})
	}
}

func TestExtractInvoiceNumberDefaultEmpty(t *testing.T) {
	e := newTestExtractor()

	c := e.Extract("just a total $9.00")

	assert.Empty(t, c.InvoiceNumber)
}

func TestExtractIdempotent(t *testing.T) {
	e := newTestExtractor()
	text := "Acme Pty Ltd\nInvoice #: INV-1\nDate: 01/02/2024\nTotal: $110.00\n"

	first := e.Extract(text)
	second := e.Extract(text)

	require.Equal(t, first, second)
}

func TestExtractFullReceipt(t *testing.T) {
	e := newTestExtractor()

	text := "Northside Hardware Pty Ltd\n" +
		"ABN 12 345 678 901\n" +
		"Invoice #: INV-2024-091\n" +
		"Date: 14/06/2024\n" +
		"Paint brush  $12.50\n" +
		"Drop sheet   $8.00\n" +
		"Total: $20.50\n"

	c := e.Extract(text)

	assert.Equal(t, "Northside Hardware Pty Ltd", c.Supplier)
	assert.Equal(t, 20.50, c.TotalAmount)
	assert.Equal(t, 1.86, c.GSTAmount)
	assert.Equal(t, 18.64, c.NetAmount)
	assert.Equal(t, "2024-06-14", c.InvoiceDate)
	assert.Equal(t, "INV-2024-091", c.InvoiceNumber)
	assert.False(t, c.IsSystemDate)
	assert.False(t, c.LowConfidence)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"05/03/2024", "2024-03-05", false},
		{"5-3-24", "2024-03-05", false},
		{"2024-03-05", "2024-03-05", false},
		{"5 March 2024", "2024-03-05", false},
		{"31 December 1999", "1999-12-31", false},
		{"29/02/2024", "2024-02-29", false},
		{"31/02/2024", "", true},
		{"29/02/2023", "", true},
		{"31 February 2024", "", true},
		{"2024-04-31", "", true},
		{"99/99/2024", "", true},
		{"gibberish", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeDate(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
