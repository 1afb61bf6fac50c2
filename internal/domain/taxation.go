package domain

import "time"

// TaxCalculation is a saved BAS-style snapshot: period income and
// expenses, the GST position, and income tax payable on the taxable
// income.
type TaxCalculation struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Income        float64   `json:"income"`
	Expenses      float64   `json:"expenses"`
	GSTCollected  float64   `json:"gstCollected"`
	GSTPaid       float64   `json:"gstPaid"`
	NetGST        float64   `json:"netGst"`
	TaxableIncome float64   `json:"taxableIncome"`
	TaxPayable    float64   `json:"taxPayable"`
	CreatedAt     time.Time `json:"createdAt"`
}
