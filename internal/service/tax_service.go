package service

import (
	"context"
	"fmt"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/extraction"
	"github.com/getjaleel/tax-manager/internal/repository"
)

// TaxServiceError represents an error in the tax service
type TaxServiceError struct {
	Op  string
	Err error
}

func (e *TaxServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *TaxServiceError) Unwrap() error {
	return e.Err
}

// TaxService defines the interface for GST and income tax calculations
type TaxService interface {
	// GetGSTSummary aggregates GST over the user's stored invoices
	GetGSTSummary(ctx context.Context, userID string, startDate, endDate *string) (*domain.GSTSummary, error)

	// EstimateTax computes GST components and income tax payable from
	// GST-inclusive income and expense figures without storing anything.
	EstimateTax(income, expenses float64) (*domain.TaxCalculation, error)

	// CalculateTax runs the same computation and stores the snapshot
	// against the user.
	CalculateTax(ctx context.Context, userID string, income, expenses float64) (*domain.TaxCalculation, error)

	ListCalculations(ctx context.Context, userID string) ([]domain.TaxCalculation, error)
}

// TaxServiceImpl implements the TaxService interface
type TaxServiceImpl struct {
	invoiceRepo repository.InvoiceRepository
	taxRepo     repository.TaxRepository
}

// NewTaxService creates a new TaxService
func NewTaxService(invoiceRepo repository.InvoiceRepository, taxRepo repository.TaxRepository) TaxService {
	return &TaxServiceImpl{
		invoiceRepo: invoiceRepo,
		taxRepo:     taxRepo,
	}
}

// GetGSTSummary aggregates GST collected and paid over a period
func (s *TaxServiceImpl) GetGSTSummary(ctx context.Context, userID string, startDate, endDate *string) (*domain.GSTSummary, error) {
	summary, err := s.invoiceRepo.GetGSTSummary(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, &TaxServiceError{
			Op:  "get_gst_summary",
			Err: err,
		}
	}
	return summary, nil
}

// EstimateTax computes a tax snapshot from annual income and expenses.
// Nothing is persisted, so it serves anonymous callers too.
func (s *TaxServiceImpl) EstimateTax(income, expenses float64) (*domain.TaxCalculation, error) {
	if income < 0 || expenses < 0 {
		return nil, &TaxServiceError{
			Op:  "estimate_tax",
			Err: fmt.Errorf("income and expenses must not be negative"),
		}
	}

	gstCollected := extraction.RoundCents(income / 11)
	gstPaid := extraction.RoundCents(expenses / 11)

	taxableIncome := extraction.RoundCents(income - expenses)
	if taxableIncome < 0 {
		taxableIncome = 0
	}

	return &domain.TaxCalculation{
		Income:        income,
		Expenses:      expenses,
		GSTCollected:  gstCollected,
		GSTPaid:       gstPaid,
		NetGST:        extraction.RoundCents(gstCollected - gstPaid),
		TaxableIncome: taxableIncome,
		TaxPayable:    IncomeTaxPayable(taxableIncome),
	}, nil
}

// CalculateTax computes a tax snapshot and stores it for the user
func (s *TaxServiceImpl) CalculateTax(ctx context.Context, userID string, income, expenses float64) (*domain.TaxCalculation, error) {
	calc, err := s.EstimateTax(income, expenses)
	if err != nil {
		return nil, err
	}
	calc.UserID = userID

	stored, err := s.taxRepo.SaveCalculation(ctx, calc)
	if err != nil {
		return nil, &TaxServiceError{
			Op:  "save_tax_calculation",
			Err: err,
		}
	}

	return stored, nil
}

// ListCalculations retrieves stored tax calculations for a user
func (s *TaxServiceImpl) ListCalculations(ctx context.Context, userID string) ([]domain.TaxCalculation, error) {
	calculations, err := s.taxRepo.ListCalculations(ctx, userID)
	if err != nil {
		return nil, &TaxServiceError{
			Op:  "list_tax_calculations",
			Err: err,
		}
	}
	return calculations, nil
}

// taxBracket is one marginal band of the Australian resident rate scale
type taxBracket struct {
	threshold float64
	rate      float64
	base      float64
}

// Australian resident income tax brackets, 2023-24 year. Excludes the
// Medicare levy and offsets.
var taxBrackets = []taxBracket{
	{threshold: 180000, rate: 0.45, base: 51667},
	{threshold: 120000, rate: 0.37, base: 29467},
	{threshold: 45000, rate: 0.325, base: 5092},
	{threshold: 18200, rate: 0.19, base: 0},
}

// IncomeTaxPayable returns income tax on a taxable income under the
// 2023-24 Australian resident rate scale, rounded to cents.
func IncomeTaxPayable(taxableIncome float64) float64 {
	for _, b := range taxBrackets {
		if taxableIncome > b.threshold {
			return extraction.RoundCents(b.base + (taxableIncome-b.threshold)*b.rate)
		}
	}
	return 0
}
