package extraction

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// Legal-entity suffixes stripped from supplier names before
	// comparison: PTY LTD, PTY, LTD, with or without a trailing dot.
	// Stripping is case-insensitive so the key agrees with the
	// case-insensitive comparison applied by the duplicate detector.
	legalSuffix = regexp.MustCompile(`(?i)\b(?:PTY|LTD)\b\.?`)
)

// NormalizeSupplier produces the canonical comparison key for a supplier
// name: whitespace runs (including newlines) collapse to single spaces,
// legal-entity suffixes are removed, and the result is trimmed. The key
// is for comparison only; the original string is what gets stored and
// displayed. Empty input normalizes to the empty string.
func NormalizeSupplier(name string) string {
	s := whitespaceRun.ReplaceAllString(name, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = legalSuffix.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
