package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getjaleel/tax-manager/internal/domain"
)

// fakeTaxRepo is an in-memory TaxRepository for service tests
type fakeTaxRepo struct {
	saved []domain.TaxCalculation
}

func (r *fakeTaxRepo) SaveCalculation(ctx context.Context, calc *domain.TaxCalculation) (*domain.TaxCalculation, error) {
	calc.ID = "calc-1"
	r.saved = append(r.saved, *calc)
	return calc, nil
}

func (r *fakeTaxRepo) ListCalculations(ctx context.Context, userID string) ([]domain.TaxCalculation, error) {
	return r.saved, nil
}

func TestIncomeTaxPayable(t *testing.T) {
	tests := []struct {
		name          string
		taxableIncome float64
		want          float64
	}{
		{"below tax-free threshold", 18000, 0},
		{"at tax-free threshold", 18200, 0},
		{"first bracket", 30000, 2242},
		{"top of first bracket", 45000, 5092},
		{"middle bracket", 100000, 22967},
		{"fourth bracket", 150000, 40567},
		{"top bracket", 200000, 60667},
		{"zero income", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IncomeTaxPayable(tt.taxableIncome))
		})
	}
}

func TestEstimateTaxDoesNotPersist(t *testing.T) {
	taxRepo := &fakeTaxRepo{}
	svc := NewTaxService(&fakeInvoiceRepo{}, taxRepo)

	calc, err := svc.EstimateTax(110000, 22000)
	require.NoError(t, err)

	assert.Equal(t, 10000.00, calc.GSTCollected)
	assert.Equal(t, 88000.00, calc.TaxableIncome)
	assert.Equal(t, 19067.00, calc.TaxPayable)
	assert.Empty(t, calc.UserID)
	assert.Empty(t, taxRepo.saved)
}

func TestCalculateTax(t *testing.T) {
	taxRepo := &fakeTaxRepo{}
	svc := NewTaxService(&fakeInvoiceRepo{}, taxRepo)

	calc, err := svc.CalculateTax(context.Background(), "user-1", 110000, 22000)
	require.NoError(t, err)

	assert.Equal(t, 10000.00, calc.GSTCollected)
	assert.Equal(t, 2000.00, calc.GSTPaid)
	assert.Equal(t, 8000.00, calc.NetGST)
	assert.Equal(t, 88000.00, calc.TaxableIncome)
	// 5092 + (88000-45000)*0.325
	assert.Equal(t, 19067.00, calc.TaxPayable)
	require.Len(t, taxRepo.saved, 1)
}

func TestCalculateTaxExpensesExceedIncome(t *testing.T) {
	taxRepo := &fakeTaxRepo{}
	svc := NewTaxService(&fakeInvoiceRepo{}, taxRepo)

	calc, err := svc.CalculateTax(context.Background(), "user-1", 11000, 22000)
	require.NoError(t, err)

	assert.Equal(t, 0.00, calc.TaxableIncome)
	assert.Equal(t, 0.00, calc.TaxPayable)
	assert.Equal(t, -1000.00, calc.NetGST)
}

func TestCalculateTaxRejectsNegativeInput(t *testing.T) {
	svc := NewTaxService(&fakeInvoiceRepo{}, &fakeTaxRepo{})

	_, err := svc.CalculateTax(context.Background(), "user-1", -1, 0)
	require.Error(t, err)

	_, err = svc.CalculateTax(context.Background(), "user-1", 0, -1)
	require.Error(t, err)
}
