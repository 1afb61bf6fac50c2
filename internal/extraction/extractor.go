// Package extraction turns noisy OCR text from scanned receipts and
// invoices into a structured candidate record and decides whether that
// record duplicates an already-stored invoice. It is pure: no I/O, no
// storage, no HTTP. Callers own persistence and the check-then-insert
// race (a unique index at the storage layer is the authoritative guard).
package extraction

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// UnknownSupplier is the supplier reported when no pattern matched.
const UnknownSupplier = "Unknown Supplier"

// Candidate is the extraction output. It is constructed once per Extract
// call and not mutated afterwards. GSTAmount and NetAmount are always
// derived from TotalAmount, never read from the text.
type Candidate struct {
	Supplier      string  `json:"supplier"`
	TotalAmount   float64 `json:"total_amount"`
	GSTAmount     float64 `json:"gst_amount"`
	NetAmount     float64 `json:"net_amount"`
	InvoiceDate   string  `json:"invoice_date"` // YYYY-MM-DD
	InvoiceNumber string  `json:"invoice_number"`
	RawText       string  `json:"raw_text"`

	// IsSystemDate marks InvoiceDate as assigned at processing time
	// rather than read from the document.
	IsSystemDate bool `json:"is_system_date"`

	// LowConfidence is set when the input text was empty or
	// whitespace-only, so every field holds its default.
	LowConfidence bool `json:"low_confidence"`

	// Matched records, per field, the name of the rule that produced the
	// value. Fields that fell back to their default are absent.
	Matched map[string]string `json:"matched,omitempty"`
}

// Config carries the extractor's configuration. The zero value is usable:
// it falls back to DefaultKnownSuppliers and the wall clock.
type Config struct {
	KnownSuppliers []KnownSupplier

	// Now supplies the fallback invoice date. Injectable for tests.
	Now func() time.Time
}

// Extractor extracts invoice fields from raw OCR text. Safe for
// concurrent use; it holds no mutable state.
type Extractor struct {
	known []KnownSupplier
	now   func() time.Time
}

// NewExtractor creates an extractor. cfg may be nil.
func NewExtractor(cfg *Config) *Extractor {
	e := &Extractor{
		known: DefaultKnownSuppliers,
		now:   time.Now,
	}
	if cfg != nil {
		if cfg.KnownSuppliers != nil {
			e.known = cfg.KnownSuppliers
		}
		if cfg.Now != nil {
			e.now = cfg.Now
		}
	}
	return e
}

// Extract parses rawText into a Candidate. It never fails: unmatched
// fields resolve to their documented defaults, and empty or garbled input
// yields a fully-defaulted candidate flagged LowConfidence.
func (e *Extractor) Extract(rawText string) *Candidate {
	c := &Candidate{
		Supplier: UnknownSupplier,
		RawText:  rawText,
		Matched:  make(map[string]string),
	}

	if strings.TrimSpace(rawText) == "" {
		c.LowConfidence = true
		c.InvoiceDate = e.now().Format("2006-01-02")
		c.IsSystemDate = true
		return c
	}

	if total, rule, ok := e.extractAmount(rawText); ok {
		c.TotalAmount = total
		c.Matched["total_amount"] = rule
	}
	c.GSTAmount, c.NetAmount = GSTComponents(c.TotalAmount)

	if supplier, rule, ok := e.extractSupplier(rawText); ok {
		c.Supplier = supplier
		c.Matched["supplier"] = rule
	}

	if date, rule, ok := e.extractDate(rawText); ok {
		c.InvoiceDate = date
		c.Matched["invoice_date"] = rule
	} else {
		c.InvoiceDate = e.now().Format("2006-01-02")
		c.IsSystemDate = true
	}

	if number, rule, ok := e.extractInvoiceNumber(rawText); ok {
		c.InvoiceNumber = number
		c.Matched["invoice_number"] = rule
	}

	return c
}

// extractAmount walks the amount cascade. A rule whose capture does not
// parse as a number is skipped, never fatal.
func (e *Extractor) extractAmount(text string) (float64, string, bool) {
	for i := range amountRules {
		rule := &amountRules[i]
		raw, ok := rule.find(text)
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			log.Printf("extraction: amount rule %q captured %q but it is not a number: %v", rule.Name, raw, err)
			continue
		}
		return value, rule.Name, true
	}
	return 0, "", false
}

func (e *Extractor) extractSupplier(text string) (string, string, bool) {
	upper := strings.ToUpper(text)
	for _, ks := range e.known {
		if strings.Contains(upper, strings.ToUpper(ks.Match)) {
			return ks.Name, "known-supplier", true
		}
	}
	for i := range supplierRules {
		rule := &supplierRules[i]
		if raw, ok := rule.find(text); ok {
			return strings.TrimSpace(raw), rule.Name, true
		}
	}
	return "", "", false
}

func (e *Extractor) extractDate(text string) (string, string, bool) {
	for i := range dateRules {
		rule := &dateRules[i]
		raw, ok := rule.find(text)
		if !ok {
			continue
		}
		date, err := normalizeDate(raw)
		if err != nil {
			log.Printf("extraction: date rule %q captured %q but it did not normalize: %v", rule.Name, raw, err)
			continue
		}
		return date, rule.Name, true
	}
	return "", "", false
}

func (e *Extractor) extractInvoiceNumber(text string) (string, string, bool) {
	for i := range invoiceNumberRules {
		rule := &invoiceNumberRules[i]
		if raw, ok := rule.find(text); ok {
			return raw, rule.Name, true
		}
	}
	return "", "", false
}

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// normalizeDate converts a captured date string to YYYY-MM-DD. Numeric
// dates are day-first (Australian convention) unless the leading
// component has four digits, in which case it is the year. Two-digit
// years map to 2000+YY. This is the only place date layout is decided.
func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	// Long-form "5 March 2024".
	if fields := strings.Fields(raw); len(fields) == 3 {
		if month, ok := monthNumbers[strings.ToLower(fields[1])]; ok {
			day, err := strconv.Atoi(fields[0])
			if err != nil {
				return "", fmt.Errorf("bad day %q", fields[0])
			}
			year, err := strconv.Atoi(fields[2])
			if err != nil {
				return "", fmt.Errorf("bad year %q", fields[2])
			}
			return formatDate(year, month, day)
		}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return "", fmt.Errorf("unrecognized date %q", raw)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("bad date component %q", p)
		}
		nums[i] = n
	}

	var year, month, day int
	if len(parts[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
	}
	if year < 100 {
		year += 2000
	}
	return formatDate(year, month, day)
}

// formatDate renders year/month/day as YYYY-MM-DD after checking they
// name a real calendar day. time.Date normalizes overflow (Feb 31
// becomes Mar 2), so a changed component means the input was invalid.
func formatDate(year, month, day int) (string, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", fmt.Errorf("date %04d-%02d-%02d out of range", year, month, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", fmt.Errorf("date %04d-%02d-%02d is not on the calendar", year, month, day)
	}
	return t.Format("2006-01-02"), nil
}
