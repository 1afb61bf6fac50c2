package model

import (
	"time"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/extraction"
)

// InvoiceDTO represents an invoice for data transfer
type InvoiceDTO struct {
	ID            string  `json:"id,omitempty"`
	Supplier      string  `json:"supplier"`
	TotalAmount   float64 `json:"total_amount"`
	GSTAmount     float64 `json:"gst_amount"`
	NetAmount     float64 `json:"net_amount"`
	InvoiceDate   string  `json:"invoice_date"` // Format: YYYY-MM-DD
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	Category      string  `json:"category,omitempty"`
	GSTEligible   bool    `json:"gst_eligible"`
	InvoiceType   string  `json:"invoice_type,omitempty"`
	Status        string  `json:"status,omitempty"`
	IsSystemDate  bool    `json:"is_system_date"`
	FileURL       string  `json:"file_url,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// FromDomain converts a domain Invoice to an InvoiceDTO
func (dto *InvoiceDTO) FromDomain(inv *domain.Invoice) {
	dto.ID = inv.ID
	dto.Supplier = inv.Supplier
	dto.TotalAmount = inv.TotalAmount
	dto.GSTAmount = inv.GSTAmount
	dto.NetAmount = inv.NetAmount
	dto.InvoiceDate = inv.InvoiceDate
	dto.InvoiceNumber = inv.InvoiceNumber
	dto.Category = inv.Category
	dto.GSTEligible = inv.GSTEligible
	dto.InvoiceType = inv.InvoiceType
	dto.Status = inv.Status
	dto.IsSystemDate = inv.IsSystemDate
	dto.FileURL = inv.FileURL
	if !inv.CreatedAt.IsZero() {
		dto.CreatedAt = inv.CreatedAt.Format(time.RFC3339)
	}
	if !inv.UpdatedAt.IsZero() {
		dto.UpdatedAt = inv.UpdatedAt.Format(time.RFC3339)
	}
}

// ProcessInvoiceResponse is the response to an invoice upload. Duplicate
// and LowConfidence surface the extraction engine's advisory signals;
// MatchedPatterns reports which rule produced each field.
type ProcessInvoiceResponse struct {
	Invoice         *InvoiceDTO       `json:"invoice"`
	Duplicate       bool              `json:"duplicate"`
	LowConfidence   bool              `json:"low_confidence,omitempty"`
	MatchedPatterns map[string]string `json:"matched_patterns,omitempty"`
}

// NewProcessInvoiceResponse builds the upload response from an extraction
// candidate and the stored invoice (nil when rejected as duplicate).
func NewProcessInvoiceResponse(c *extraction.Candidate, inv *domain.Invoice, duplicate bool) *ProcessInvoiceResponse {
	resp := &ProcessInvoiceResponse{
		Duplicate:       duplicate,
		LowConfidence:   c.LowConfidence,
		MatchedPatterns: c.Matched,
	}
	dto := &InvoiceDTO{}
	if inv != nil {
		dto.FromDomain(inv)
	} else {
		dto.Supplier = c.Supplier
		dto.TotalAmount = c.TotalAmount
		dto.GSTAmount = c.GSTAmount
		dto.NetAmount = c.NetAmount
		dto.InvoiceDate = c.InvoiceDate
		dto.InvoiceNumber = c.InvoiceNumber
		dto.IsSystemDate = c.IsSystemDate
	}
	resp.Invoice = dto
	return resp
}

// UpdateStatusRequest is the body of PATCH /v1/invoices/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaxCalculationRequest is the body of POST /v1/tax/calculations
type TaxCalculationRequest struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}
