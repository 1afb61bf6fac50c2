package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/extraction"
	"github.com/getjaleel/tax-manager/internal/imageutil"
	"github.com/getjaleel/tax-manager/internal/repository"
)

// InvoiceServiceError represents an error in the invoice service
type InvoiceServiceError struct {
	Op  string
	Err error
}

func (e *InvoiceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap exposes the underlying error so callers can match domain
// sentinels like domain.ErrDuplicateInvoice.
func (e *InvoiceServiceError) Unwrap() error {
	return e.Err
}

// TextExtractor extracts text from a scanned document
type TextExtractor interface {
	ExtractText(ctx context.Context, document []byte, contentType string) (string, error)
}

// DocumentStore stores uploaded invoice files and returns their URL
type DocumentStore interface {
	UploadDocument(data []byte, key, contentType string) (string, error)
}

// InvoiceService defines the interface for invoice-related business logic
type InvoiceService interface {
	// ProcessInvoice runs the full pipeline on an uploaded document: OCR,
	// field extraction, duplicate detection, file upload, persistence.
	// On a duplicate it returns the extraction candidate alongside an
	// error matching domain.ErrDuplicateInvoice.
	ProcessInvoice(ctx context.Context, document []byte, contentType, userID, invoiceType string) (*extraction.Candidate, *domain.Invoice, error)

	// The read/update/delete operations are scoped to the owning user:
	// another user's invoice behaves as if it does not exist.
	GetInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error)
	UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error
}

// InvoiceServiceImpl implements the InvoiceService interface
type InvoiceServiceImpl struct {
	repository repository.InvoiceRepository
	ocrClient  TextExtractor
	store      DocumentStore
	extractor  *extraction.Extractor
	workerPool chan struct{}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repo repository.InvoiceRepository, ocrClient TextExtractor, store DocumentStore, extractor *extraction.Extractor, maxWorkers int) InvoiceService {
	return &InvoiceServiceImpl{
		repository: repo,
		ocrClient:  ocrClient,
		store:      store,
		extractor:  extractor,
		workerPool: make(chan struct{}, maxWorkers),
	}
}

// ProcessInvoice processes an uploaded document to extract and store invoice data
func (s *InvoiceServiceImpl) ProcessInvoice(ctx context.Context, document []byte, contentType, userID, invoiceType string) (*extraction.Candidate, *domain.Invoice, error) {
	// Acquire worker from pool
	select {
	case s.workerPool <- struct{}{}:
		defer func() {
			// Release worker back to pool
			<-s.workerPool
		}()
	case <-ctx.Done():
		// Context cancelled while waiting for worker
		return nil, nil, &InvoiceServiceError{
			Op:  "acquire_worker",
			Err: ctx.Err(),
		}
	}

	// Downscale oversized images before OCR. PDFs go through untouched;
	// the sidecar rasterizes those itself.
	if strings.HasPrefix(contentType, "image/") {
		resized, err := imageutil.ResizeImage(document, nil)
		if err != nil {
			return nil, nil, &InvoiceServiceError{
				Op:  "resize_image",
				Err: err,
			}
		}
		document = resized
	}

	rawText, err := s.ocrClient.ExtractText(ctx, document, contentType)
	if err != nil {
		return nil, nil, &InvoiceServiceError{
			Op:  "extract_text",
			Err: err,
		}
	}

	candidate := s.extractor.Extract(rawText)

	// Advisory duplicate check against the user's stored invoices. The
	// repository's unique index still backstops concurrent uploads.
	existing, err := s.repository.ListDedupKeys(ctx, userID)
	if err != nil {
		return nil, nil, &InvoiceServiceError{
			Op:  "list_dedup_keys",
			Err: err,
		}
	}
	if extraction.IsDuplicate(candidate, existing) {
		return candidate, nil, &InvoiceServiceError{
			Op:  "detect_duplicate",
			Err: domain.ErrDuplicateInvoice,
		}
	}

	fileURL := ""
	if s.store != nil {
		key := fmt.Sprintf("invoices/%s/%s%s", userID, uuid.NewString(), fileExtension(contentType))
		fileURL, err = s.store.UploadDocument(document, key, contentType)
		if err != nil {
			return nil, nil, &InvoiceServiceError{
				Op:  "upload_document",
				Err: err,
			}
		}
	}

	if invoiceType == "" {
		invoiceType = domain.TypeExpense
	}

	invoice := &domain.Invoice{
		UserID:        userID,
		Supplier:      candidate.Supplier,
		TotalAmount:   candidate.TotalAmount,
		GSTAmount:     candidate.GSTAmount,
		NetAmount:     candidate.NetAmount,
		InvoiceDate:   candidate.InvoiceDate,
		InvoiceNumber: candidate.InvoiceNumber,
		Category:      "Other",
		GSTEligible:   candidate.GSTAmount > 0,
		InvoiceType:   invoiceType,
		Status:        domain.StatusPending,
		IsSystemDate:  candidate.IsSystemDate,
		FileURL:       fileURL,
		RawText:       candidate.RawText,
	}

	stored, err := s.repository.CreateInvoice(ctx, invoice)
	if err != nil {
		return candidate, nil, &InvoiceServiceError{
			Op:  "store_invoice",
			Err: err,
		}
	}

	return candidate, stored, nil
}

// fileExtension maps an upload content type to a storage key extension
func fileExtension(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}

// GetInvoiceByID retrieves one of the user's invoices by ID
func (s *InvoiceServiceImpl) GetInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.repository.GetInvoiceByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "get_invoice",
			Err: err,
		}
	}
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices
func (s *InvoiceServiceImpl) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error) {
	invoices, err := s.repository.ListInvoices(ctx, filter)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "list_invoices",
			Err: err,
		}
	}
	return invoices, nil
}

// UpdateInvoiceStatus moves one of the user's invoices through the
// status workflow
func (s *InvoiceServiceImpl) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) (*domain.Invoice, error) {
	if !domain.ValidStatus(status) {
		return nil, &InvoiceServiceError{
			Op:  "update_invoice_status",
			Err: fmt.Errorf("invalid status %q", status),
		}
	}

	invoice, err := s.repository.UpdateInvoiceStatus(ctx, userID, invoiceID, status)
	if err != nil {
		return nil, &InvoiceServiceError{
			Op:  "update_invoice_status",
			Err: err,
		}
	}
	return invoice, nil
}

// DeleteInvoice deletes one of the user's invoices
func (s *InvoiceServiceImpl) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	err := s.repository.DeleteInvoice(ctx, userID, invoiceID)
	if err != nil {
		return &InvoiceServiceError{
			Op:  "delete_invoice",
			Err: err,
		}
	}
	return nil
}
