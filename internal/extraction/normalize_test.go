package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSupplier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips uppercase suffix", " Acme   PTY LTD ", "Acme"},
		{"strips mixed-case suffix", "Acme Pty Ltd", "Acme"},
		{"strips dotted suffix", "Acme Pty. Ltd.", "Acme"},
		{"strips lone pty", "Acme PTY", "Acme"},
		{"strips lone ltd", "Acme Ltd", "Acme"},
		{"collapses newlines", "Acme\nTrading\tCo", "Acme Trading Co"},
		{"preserves case of remainder", "AcMe Widgets LTD", "AcMe Widgets"},
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
		{"no suffix untouched", "Bunnings Warehouse", "Bunnings Warehouse"},
		{"suffix not stripped mid-word", "Platypus Supplies", "Platypus Supplies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSupplier(tt.input))
		})
	}
}
