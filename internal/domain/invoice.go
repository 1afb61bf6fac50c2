package domain

import (
	"fmt"
	"time"
)

// Invoice statuses. New invoices start as pending and move to processed
// once reviewed; archived invoices are kept for reporting only.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusArchived  = "archived"
)

// Invoice types. GST collected on income invoices offsets GST paid on
// expense invoices in the GST summary.
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Invoice represents a stored invoice record. GSTAmount and NetAmount
// are derived from TotalAmount at extraction time (GST-inclusive, 10%).
type Invoice struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Supplier      string    `json:"supplier"`
	TotalAmount   float64   `json:"total_amount"`
	GSTAmount     float64   `json:"gst_amount"`
	NetAmount     float64   `json:"net_amount"`
	InvoiceDate   string    `json:"invoice_date"` // YYYY-MM-DD
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	Category      string    `json:"category"`
	GSTEligible   bool      `json:"gst_eligible"`
	InvoiceType   string    `json:"invoice_type"`
	Status        string    `json:"status"`
	IsSystemDate  bool      `json:"is_system_date"`
	FileURL       string    `json:"file_url,omitempty"`
	RawText       string    `json:"raw_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is a recognized invoice status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusProcessed || s == StatusArchived
}

// ValidInvoiceType reports whether s is a recognized invoice type.
func ValidInvoiceType(s string) bool {
	return s == TypeExpense || s == TypeIncome
}

// Validate checks the fields a caller-supplied invoice must carry.
func (i *Invoice) Validate() error {
	if i.Supplier == "" {
		return fmt.Errorf("supplier is required")
	}
	if i.TotalAmount < 0 {
		return fmt.Errorf("total_amount must not be negative")
	}
	if i.InvoiceDate == "" {
		return fmt.Errorf("invoice_date is required")
	}
	if _, err := time.Parse("2006-01-02", i.InvoiceDate); err != nil {
		return fmt.Errorf("invoice_date must be YYYY-MM-DD")
	}
	if i.InvoiceType != "" && !ValidInvoiceType(i.InvoiceType) {
		return fmt.Errorf("invoice_type must be %q or %q", TypeExpense, TypeIncome)
	}
	if i.Status != "" && !ValidStatus(i.Status) {
		return fmt.Errorf("invalid status %q", i.Status)
	}
	return nil
}

// InvoiceFilter represents filters for querying invoices
type InvoiceFilter struct {
	UserID      string
	Supplier    string
	InvoiceType string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
}

// Pagination represents pagination metadata
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// PaginatedInvoices represents a paginated list of invoices
type PaginatedInvoices struct {
	Data       []Invoice  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// GSTSummary aggregates GST over a period: collected on income invoices,
// paid on expense invoices.
type GSTSummary struct {
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	GSTCollected float64 `json:"gstCollected"`
	GSTPaid      float64 `json:"gstPaid"`
	NetGST       float64 `json:"netGst"`
}
