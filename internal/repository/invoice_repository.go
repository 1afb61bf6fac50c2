package repository

import (
	"context"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/extraction"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// CreateInvoice stores a new invoice. It returns
	// domain.ErrDuplicateInvoice when the (supplier key, total, date)
	// unique index rejects the row. The index is the authoritative
	// duplicate guard.
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)

	// GetInvoiceByID retrieves one of the user's invoices by its ID.
	// Another user's invoice is domain.ErrInvoiceNotFound, not theirs
	// to see.
	GetInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices with optional filters and pagination
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error)

	// ListDedupKeys returns the duplicate-key fields of every stored
	// invoice for a user, for the extraction engine's duplicate check.
	ListDedupKeys(ctx context.Context, userID string) ([]extraction.ExistingInvoice, error)

	// UpdateInvoiceStatus moves one of the user's invoices through the
	// status workflow
	UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) (*domain.Invoice, error)

	// DeleteInvoice deletes one of the user's invoices by its ID
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error

	// GetGSTSummary aggregates GST collected/paid over a period
	GetGSTSummary(ctx context.Context, userID string, startDate, endDate *string) (*domain.GSTSummary, error)
}

// TaxRepository defines the interface for saved tax calculations
type TaxRepository interface {
	SaveCalculation(ctx context.Context, calc *domain.TaxCalculation) (*domain.TaxCalculation, error)
	ListCalculations(ctx context.Context, userID string) ([]domain.TaxCalculation, error)
}
