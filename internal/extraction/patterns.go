package extraction

import "regexp"

// Rule is a single entry in a field's pattern cascade. Rules are tried in
// slice order and the first one whose capture group yields a non-empty
// value wins; extraction stops there. More specific, keyword-anchored
// rules must come before generic catch-alls.
type Rule struct {
	// Name identifies the rule in logs and in Candidate.Matched.
	Name string

	// Expr is the regular expression source. Unless CaseSensitive is set
	// it is compiled with the (?i) flag.
	Expr string

	// Group is the index of the capture group holding the raw value.
	Group int

	// CaseSensitive disables the default case-insensitive matching.
	// Used where letter case carries meaning (capitalized phrases,
	// legal-entity suffixes).
	CaseSensitive bool

	re *regexp.Regexp
}

func compileRules(rules []Rule) []Rule {
	for i := range rules {
		expr := rules[i].Expr
		if !rules[i].CaseSensitive {
			expr = "(?i)" + expr
		}
		rules[i].re = regexp.MustCompile(expr)
	}
	return rules
}

// find returns the rule's captured value in text, if any.
func (r *Rule) find(text string) (string, bool) {
	m := r.re.FindStringSubmatch(text)
	if m == nil || r.Group >= len(m) || m[r.Group] == "" {
		return "", false
	}
	return m[r.Group], true
}

// money matches a currency-formatted number: optional thousands
// separators, exactly two decimal digits.
const money = `(\d+(?:,\d{3})*\.\d{2})`

// currency is the optional AUD marker that may precede the $ sign.
const currency = `(?:AUD\s*|A)?`

// amountRules extract the tax-inclusive invoice total. Keyword-anchored
// rules come first; the bare trailing-$ rule is a last-resort catch-all
// so line items do not shadow a labeled total.
var amountRules = compileRules([]Rule{
	{Name: "total-keyword", Expr: `\btotal\b[^\n]*?` + currency + `\$?\s*` + money, Group: 1},
	{Name: "amount-due", Expr: `\bamount\s+due\b[^\n]*?` + currency + `\$?\s*` + money, Group: 1},
	{Name: "grand-total", Expr: `\bgrand\s+total\b[^\n]*?` + currency + `\$?\s*` + money, Group: 1},
	{Name: "amount-then-total", Expr: currency + `\$\s*` + money + `\s*(?:total|due)`, Group: 1},
	{Name: "charged-to", Expr: `\bcharged\s+to\b[^\n]*?` + currency + `\$\s*` + money, Group: 1},
	{Name: "trailing-amount", Expr: `(?m)` + currency + `\$\s*` + money + `[ \t]*$`, Group: 1},
})

// supplierRules extract the supplier name when the known-supplier table
// has no hit: explicit labels, then a line-initial capitalized phrase,
// then a legal-entity suffix.
var supplierRules = compileRules([]Rule{
	{Name: "labeled-supplier", Expr: `(?m)^[ \t]*(?:from|supplier|vendor|bill from|invoice from|billed by)[ \t]*:[ \t]*([^\n]+?)[ \t]*$`, Group: 1},
	{Name: "leading-capitalized", Expr: `(?m)^([A-Z][A-Za-z&'. ]{2,60}?)[ \t]*$`, Group: 1, CaseSensitive: true},
	{Name: "legal-suffix", Expr: `([A-Z][A-Za-z ]+(?:Pty\.?(?:[ ]+Ltd\.?)?|Ltd\.?|Inc\.?|LLC|Limited|Corporation))`, Group: 1, CaseSensitive: true},
})

// dateRules extract the invoice date. The captured raw value is handed to
// normalizeDate, which applies the day-first convention.
var dateRules = compileRules([]Rule{
	{Name: "labeled-date", Expr: `(?:invoice\s+date|date)\s*:\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`, Group: 1},
	{Name: "numeric-date", Expr: `(\d{1,2}[/-]\d{1,2}[/-]\d{4})`, Group: 1},
	{Name: "iso-date", Expr: `(\d{4}-\d{1,2}-\d{1,2})`, Group: 1},
	{Name: "long-form-date", Expr: `(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})`, Group: 1},
})

// invoiceNumberRules extract the document reference. The captured value
// is used verbatim.
var invoiceNumberRules = compileRules([]Rule{
	{Name: "invoice-number-label", Expr: `\b(?:invoice|order|sales\s+order)\s*(?:#|no\.?|number)\s*:?\s*([A-Za-z0-9][A-Za-z0-9-]*)`, Group: 1},
	{Name: "reference-label", Expr: `\bref\s*:\s*([A-Za-z0-9][A-Za-z0-9-]*)`, Group: 1},
})

// KnownSupplier is an entry in the known-supplier lookup table: Match is
// the substring looked for (case-insensitively) anywhere in the text,
// Name is the canonical supplier name reported when it hits.
type KnownSupplier struct {
	Match string
	Name  string
}

// DefaultKnownSuppliers special-cases suppliers whose receipts carry a
// recognizable brand string but no parseable supplier line. The table is
// configuration: callers can pass their own via Config.
var DefaultKnownSuppliers = []KnownSupplier{
	{Match: "BUNNINGS", Name: "Bunnings Warehouse"},
	{Match: "OFFICEWORKS", Name: "Officeworks"},
	{Match: "WOOLWORTHS", Name: "Woolworths"},
	{Match: "COLES", Name: "Coles"},
	{Match: "TELSTRA", Name: "Telstra"},
	{Match: "ORIGIN ENERGY", Name: "Origin Energy"},
	{Match: "AMAZON", Name: "Amazon AU"},
}
