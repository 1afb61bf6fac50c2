package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/extraction"
)

// fakeInvoiceRepo is an in-memory InvoiceRepository for service tests
type fakeInvoiceRepo struct {
	invoices  []domain.Invoice
	createErr error
}

func (r *fakeInvoiceRepo) CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	invoice.ID = "inv-1"
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt
	r.invoices = append(r.invoices, *invoice)
	return invoice, nil
}

func (r *fakeInvoiceRepo) GetInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	for i := range r.invoices {
		if r.invoices[i].ID == invoiceID && r.invoices[i].UserID == userID {
			return &r.invoices[i], nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (r *fakeInvoiceRepo) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error) {
	return &domain.PaginatedInvoices{Data: r.invoices}, nil
}

func (r *fakeInvoiceRepo) ListDedupKeys(ctx context.Context, userID string) ([]extraction.ExistingInvoice, error) {
	keys := make([]extraction.ExistingInvoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		keys = append(keys, extraction.ExistingInvoice{
			Supplier:    inv.Supplier,
			TotalAmount: inv.TotalAmount,
			InvoiceDate: inv.InvoiceDate,
		})
	}
	return keys, nil
}

func (r *fakeInvoiceRepo) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) (*domain.Invoice, error) {
	for i := range r.invoices {
		if r.invoices[i].ID == invoiceID && r.invoices[i].UserID == userID {
			r.invoices[i].Status = status
			return &r.invoices[i], nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (r *fakeInvoiceRepo) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	for i := range r.invoices {
		if r.invoices[i].ID == invoiceID && r.invoices[i].UserID == userID {
			r.invoices = append(r.invoices[:i], r.invoices[i+1:]...)
			return nil
		}
	}
	return domain.ErrInvoiceNotFound
}

func (r *fakeInvoiceRepo) GetGSTSummary(ctx context.Context, userID string, startDate, endDate *string) (*domain.GSTSummary, error) {
	return &domain.GSTSummary{}, nil
}

// fakeOCR returns canned text for any document
type fakeOCR struct {
	text string
	err  error
}

func (o *fakeOCR) ExtractText(ctx context.Context, document []byte, contentType string) (string, error) {
	return o.text, o.err
}

// fakeStore records uploaded keys
type fakeStore struct {
	keys []string
}

func (s *fakeStore) UploadDocument(data []byte, key, contentType string) (string, error) {
	s.keys = append(s.keys, key)
	return "https://files.example.com/" + key, nil
}

func fixedExtractor() *extraction.Extractor {
	return extraction.NewExtractor(&extraction.Config{
		Now: func() time.Time {
			return time.Date(2024, time.July, 15, 10, 0, 0, 0, time.UTC)
		},
	})
}

func TestProcessInvoiceStoresExtractedFields(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	ocr := &fakeOCR{text: "BUNNINGS Warehouse\nDate: 05/03/2024\nTotal: $123.45\n"}
	store := &fakeStore{}
	svc := NewInvoiceService(repo, ocr, store, fixedExtractor(), 2)

	candidate, invoice, err := svc.ProcessInvoice(context.Background(), []byte("pdfdata"), "application/pdf", "user-1", "")
	require.NoError(t, err)
	require.NotNil(t, invoice)

	assert.Equal(t, "Bunnings Warehouse", candidate.Supplier)
	assert.Equal(t, "Bunnings Warehouse", invoice.Supplier)
	assert.Equal(t, 123.45, invoice.TotalAmount)
	assert.Equal(t, 11.22, invoice.GSTAmount)
	assert.Equal(t, 112.23, invoice.NetAmount)
	assert.Equal(t, "2024-03-05", invoice.InvoiceDate)
	assert.Equal(t, domain.TypeExpense, invoice.InvoiceType)
	assert.Equal(t, domain.StatusPending, invoice.Status)
	assert.False(t, invoice.IsSystemDate)
	assert.NotEmpty(t, invoice.FileURL)
	require.Len(t, store.keys, 1)
}

func TestProcessInvoiceRejectsDuplicate(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	ocr := &fakeOCR{text: "From: Acme Pty Ltd\nDate: 05/03/2024\nTotal: $123.45\n"}
	svc := NewInvoiceService(repo, ocr, nil, fixedExtractor(), 2)

	_, _, err := svc.ProcessInvoice(context.Background(), []byte("doc"), "application/pdf", "user-1", "")
	require.NoError(t, err)

	candidate, invoice, err := svc.ProcessInvoice(context.Background(), []byte("doc"), "application/pdf", "user-1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateInvoice))
	assert.Nil(t, invoice)
	require.NotNil(t, candidate, "duplicate response should carry the extracted fields")
	assert.Equal(t, 123.45, candidate.TotalAmount)
	assert.Len(t, repo.invoices, 1)
}

func TestProcessInvoiceDuplicateIgnoresSupplierCaseAndSuffix(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	ocr := &fakeOCR{text: "From: Acme Pty Ltd\nDate: 05/03/2024\nTotal: $123.45\n"}
	svc := NewInvoiceService(repo, ocr, nil, fixedExtractor(), 2)

	_, _, err := svc.ProcessInvoice(context.Background(), []byte("doc"), "application/pdf", "user-1", "")
	require.NoError(t, err)

	// Same supplier with different casing and no legal suffix
	ocr.text = "From: ACME\nDate: 05/03/2024\nTotal: $123.45\n"
	_, _, err = svc.ProcessInvoice(context.Background(), []byte("doc"), "application/pdf", "user-1", "")
	assert.True(t, errors.Is(err, domain.ErrDuplicateInvoice))
}

func TestProcessInvoicePropagatesOCRError(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	ocr := &fakeOCR{err: errors.New("sidecar unavailable")}
	svc := NewInvoiceService(repo, ocr, nil, fixedExtractor(), 1)

	_, _, err := svc.ProcessInvoice(context.Background(), []byte("doc"), "application/pdf", "user-1", "")
	require.Error(t, err)

	var svcErr *InvoiceServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "extract_text", svcErr.Op)
}

func TestProcessInvoiceCancelledWhileQueued(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	ocr := &fakeOCR{text: "Total: $10.00"}
	svc := NewInvoiceService(repo, ocr, nil, fixedExtractor(), 1).(*InvoiceServiceImpl)

	// Fill the only worker slot so the next call has to wait
	svc.workerPool <- struct{}{}
	defer func() { <-svc.workerPool }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.ProcessInvoice(ctx, []byte("doc"), "application/pdf", "user-1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProcessInvoiceIncomeType(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	ocr := &fakeOCR{text: "Invoice No: 42\nTotal: $1,100.00\nDate: 01/07/2024"}
	svc := NewInvoiceService(repo, ocr, nil, fixedExtractor(), 2)

	_, invoice, err := svc.ProcessInvoice(context.Background(), []byte("doc"), "application/pdf", "user-1", domain.TypeIncome)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeIncome, invoice.InvoiceType)
	assert.Equal(t, 1100.00, invoice.TotalAmount)
	assert.Equal(t, 100.00, invoice.GSTAmount)
	assert.Equal(t, "42", invoice.InvoiceNumber)
}

func TestUpdateInvoiceStatusValidation(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	svc := NewInvoiceService(repo, &fakeOCR{}, nil, fixedExtractor(), 1)

	_, err := svc.UpdateInvoiceStatus(context.Background(), "user-1", "inv-1", "bogus")
	require.Error(t, err)

	var svcErr *InvoiceServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "update_invoice_status", svcErr.Op)
}

func TestGetInvoiceByIDNotFound(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	svc := NewInvoiceService(repo, &fakeOCR{}, nil, fixedExtractor(), 1)

	_, err := svc.GetInvoiceByID(context.Background(), "user-1", "missing")
	assert.True(t, errors.Is(err, domain.ErrInvoiceNotFound))
}

func TestInvoiceOperationsScopedToOwner(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	ocr := &fakeOCR{text: "From: Acme Pty Ltd\nDate: 05/03/2024\nTotal: $123.45\n"}
	svc := NewInvoiceService(repo, ocr, nil, fixedExtractor(), 2)

	_, invoice, err := svc.ProcessInvoice(context.Background(), []byte("doc"), "application/pdf", "user-1", "")
	require.NoError(t, err)

	// Another user must not be able to read, restatus or delete it
	_, err = svc.GetInvoiceByID(context.Background(), "user-2", invoice.ID)
	assert.True(t, errors.Is(err, domain.ErrInvoiceNotFound))

	_, err = svc.UpdateInvoiceStatus(context.Background(), "user-2", invoice.ID, domain.StatusArchived)
	assert.True(t, errors.Is(err, domain.ErrInvoiceNotFound))

	err = svc.DeleteInvoice(context.Background(), "user-2", invoice.ID)
	assert.True(t, errors.Is(err, domain.ErrInvoiceNotFound))

	// Untouched for the owner
	got, err := svc.GetInvoiceByID(context.Background(), "user-1", invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	require.NoError(t, svc.DeleteInvoice(context.Background(), "user-1", invoice.ID))
	assert.Empty(t, repo.invoices)
}
