package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/getjaleel/tax-manager/internal/domain"
)

// PostgresTaxRepository implements TaxRepository using PostgreSQL
type PostgresTaxRepository struct {
	db *pgxpool.Pool
}

// NewPostgresTaxRepository creates a new PostgreSQL tax calculation repository
func NewPostgresTaxRepository(db *pgxpool.Pool) *PostgresTaxRepository {
	return &PostgresTaxRepository{
		db: db,
	}
}

// SaveCalculation stores a tax calculation snapshot
func (r *PostgresTaxRepository) SaveCalculation(ctx context.Context, calc *domain.TaxCalculation) (*domain.TaxCalculation, error) {
	if calc.ID == "" {
		calc.ID = uuid.NewString()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO tax_calculations (
			id, user_id, income, expenses, gst_collected, gst_paid,
			net_gst, taxable_income, tax_payable
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, calc.ID, calc.UserID, calc.Income, calc.Expenses, calc.GSTCollected,
		calc.GSTPaid, calc.NetGST, calc.TaxableIncome, calc.TaxPayable,
	).Scan(&calc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tax calculation: %w", err)
	}

	return calc, nil
}

// ListCalculations retrieves all tax calculations for a user, newest first
func (r *PostgresTaxRepository) ListCalculations(ctx context.Context, userID string) ([]domain.TaxCalculation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, income, expenses, gst_collected, gst_paid,
		       net_gst, taxable_income, tax_payable, created_at
		FROM tax_calculations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax calculations: %w", err)
	}
	defer rows.Close()

	calculations := []domain.TaxCalculation{}
	for rows.Next() {
		var calc domain.TaxCalculation
		if err := rows.Scan(
			&calc.ID, &calc.UserID, &calc.Income, &calc.Expenses,
			&calc.GSTCollected, &calc.GSTPaid, &calc.NetGST,
			&calc.TaxableIncome, &calc.TaxPayable, &calc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tax calculation: %w", err)
		}
		calculations = append(calculations, calc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax calculations: %w", err)
	}

	return calculations, nil
}
