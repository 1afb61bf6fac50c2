package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/extraction"
)

// uniqueViolation is the PostgreSQL error code raised when the dedup
// index rejects an insert.
const uniqueViolation = "23505"

// PostgresInvoiceRepository implements InvoiceRepository interface using PostgreSQL
type PostgresInvoiceRepository struct {
	db *pgxpool.Pool
}

// NewPostgresInvoiceRepository creates a new PostgreSQL invoice repository
func NewPostgresInvoiceRepository(db *pgxpool.Pool) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{
		db: db,
	}
}

// supplierKey is the stored duplicate-detection key for a supplier name:
// normalized and lowercased so the unique index compares case-insensitively.
func supplierKey(supplier string) string {
	return strings.ToLower(extraction.NormalizeSupplier(supplier))
}

// CreateInvoice saves a new invoice to the database. The unique index on
// (user_id, supplier_key, total_amount, invoice_date) is the
// authoritative duplicate guard; a violation maps to
// domain.ErrDuplicateInvoice.
func (r *PostgresInvoiceRepository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO invoices (
			id, user_id, supplier, supplier_key, total_amount, gst_amount, net_amount,
			invoice_date, invoice_number, category, gst_eligible, invoice_type,
			status, is_system_date, file_url, raw_text
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`, invoice.ID, invoice.UserID, invoice.Supplier, supplierKey(invoice.Supplier),
		invoice.TotalAmount, invoice.GSTAmount, invoice.NetAmount,
		invoice.InvoiceDate, invoice.InvoiceNumber, invoice.Category, invoice.GSTEligible,
		invoice.InvoiceType, invoice.Status, invoice.IsSystemDate, invoice.FileURL,
		invoice.RawText,
	).Scan(&invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateInvoice
		}
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	return invoice, nil
}

// GetInvoiceByID retrieves one of the user's invoices by its ID. The
// user_id predicate keeps one user's rows invisible to another.
func (r *PostgresInvoiceRepository) GetInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, supplier, total_amount, gst_amount, net_amount,
		       invoice_date, COALESCE(invoice_number, ''), category, gst_eligible,
		       invoice_type, status, is_system_date, COALESCE(file_url, ''),
		       COALESCE(raw_text, ''), created_at, updated_at
		FROM invoices
		WHERE id = $1 AND user_id = $2
	`, invoiceID, userID).Scan(
		&invoice.ID, &invoice.UserID, &invoice.Supplier, &invoice.TotalAmount,
		&invoice.GSTAmount, &invoice.NetAmount, &invoice.InvoiceDate,
		&invoice.InvoiceNumber, &invoice.Category, &invoice.GSTEligible,
		&invoice.InvoiceType, &invoice.Status, &invoice.IsSystemDate,
		&invoice.FileURL, &invoice.RawText, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return &invoice, nil
}

// ListInvoices retrieves invoices with optional filters and pagination
func (r *PostgresInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) (*domain.PaginatedInvoices, error) {
	result := &domain.PaginatedInvoices{
		Data:       []domain.Invoice{},
		Pagination: domain.Pagination{},
	}

	// Set default pagination values if not provided
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	// Build query conditions
	conditions := []string{}
	args := []interface{}{}
	argCount := 1

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argCount))
		args = append(args, filter.UserID)
		argCount++
	}
	if filter.Supplier != "" {
		conditions = append(conditions, fmt.Sprintf("supplier ILIKE $%d", argCount))
		args = append(args, "%"+filter.Supplier+"%") // Case-insensitive partial match
		argCount++
	}
	if filter.InvoiceType != "" {
		conditions = append(conditions, fmt.Sprintf("invoice_type = $%d", argCount))
		args = append(args, filter.InvoiceType)
		argCount++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, filter.Status)
		argCount++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_date >= $%d", argCount))
		args = append(args, filter.StartDate.Format("2006-01-02"))
		argCount++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_date <= $%d", argCount))
		args = append(args, filter.EndDate.Format("2006-01-02"))
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total items
	var totalItems int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM invoices %s`, whereClause)
	err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	// Calculate pagination values
	result.Pagination.TotalItems = totalItems
	result.Pagination.Limit = filter.Limit
	result.Pagination.CurrentPage = filter.Page
	result.Pagination.TotalPages = int(math.Ceil(float64(totalItems) / float64(filter.Limit)))

	// If no results, return empty array
	if totalItems == 0 {
		return result, nil
	}

	// Calculate offset
	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	// Query invoices with pagination
	query := fmt.Sprintf(`
		SELECT id, user_id, supplier, total_amount, gst_amount, net_amount,
		       invoice_date, COALESCE(invoice_number, ''), category, gst_eligible,
		       invoice_type, status, is_system_date, COALESCE(file_url, ''),
		       COALESCE(raw_text, ''), created_at, updated_at
		FROM invoices
		%s
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID, &invoice.UserID, &invoice.Supplier, &invoice.TotalAmount,
			&invoice.GSTAmount, &invoice.NetAmount, &invoice.InvoiceDate,
			&invoice.InvoiceNumber, &invoice.Category, &invoice.GSTEligible,
			&invoice.InvoiceType, &invoice.Status, &invoice.IsSystemDate,
			&invoice.FileURL, &invoice.RawText, &invoice.CreatedAt, &invoice.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		result.Data = append(result.Data, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return result, nil
}

// ListDedupKeys returns the duplicate-key fields of every stored invoice
// for a user, for the extraction engine's advisory duplicate check.
func (r *PostgresInvoiceRepository) ListDedupKeys(ctx context.Context, userID string) ([]extraction.ExistingInvoice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT supplier, total_amount, invoice_date
		FROM invoices
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dedup keys: %w", err)
	}
	defer rows.Close()

	var keys []extraction.ExistingInvoice
	for rows.Next() {
		var key extraction.ExistingInvoice
		if err := rows.Scan(&key.Supplier, &key.TotalAmount, &key.InvoiceDate); err != nil {
			return nil, fmt.Errorf("failed to scan dedup key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dedup keys: %w", err)
	}

	return keys, nil
}

// UpdateInvoiceStatus moves one of the user's invoices through the
// status workflow
func (r *PostgresInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, status string) (*domain.Invoice, error) {
	commandTag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3
	`, status, invoiceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return nil, domain.ErrInvoiceNotFound
	}

	return r.GetInvoiceByID(ctx, userID, invoiceID)
}

// DeleteInvoice deletes one of the user's invoices by its ID
func (r *PostgresInvoiceRepository) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	commandTag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, invoiceID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

// GetGSTSummary aggregates GST collected on income invoices and GST paid
// on GST-eligible expense invoices over an optional date range.
func (r *PostgresInvoiceRepository) GetGSTSummary(ctx context.Context, userID string, startDate, endDate *string) (*domain.GSTSummary, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	argCount := 2

	if startDate != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_date >= $%d", argCount))
		args = append(args, *startDate)
		argCount++
	}
	if endDate != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_date <= $%d", argCount))
		args = append(args, *endDate)
		argCount++
	}

	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE invoice_type = 'income'), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE invoice_type = 'expense'), 0),
			COALESCE(SUM(gst_amount) FILTER (WHERE invoice_type = 'income'), 0),
			COALESCE(SUM(gst_amount) FILTER (WHERE invoice_type = 'expense' AND gst_eligible), 0)
		FROM invoices
		WHERE %s
	`, strings.Join(conditions, " AND "))

	summary := &domain.GSTSummary{}
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&summary.Income,
		&summary.Expenses,
		&summary.GSTCollected,
		&summary.GSTPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate GST summary: %w", err)
	}

	summary.NetGST = extraction.RoundCents(summary.GSTCollected - summary.GSTPaid)

	return summary, nil
}
