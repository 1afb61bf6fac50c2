package extraction

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGSTComponents(t *testing.T) {
	tests := []struct {
		total   float64
		wantGST float64
		wantNet float64
	}{
		{0, 0, 0},
		{11.00, 1.00, 10.00},
		{123.45, 11.22, 112.23},
		{100.00, 9.09, 90.91},
		{0.05, 0.00, 0.05},
		{1100.00, 100.00, 1000.00},
		{19.99, 1.82, 18.17},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%.2f", tt.total), func(t *testing.T) {
			gst, net := GSTComponents(tt.total)
			assert.Equal(t, tt.wantGST, gst)
			assert.Equal(t, tt.wantNet, net)
		})
	}
}

// The GST and net components must always reassemble into the total,
// whatever the input, to within a cent.
func TestGSTComponentsSumToTotal(t *testing.T) {
	for cents := 1; cents <= 100000; cents += 7 {
		total := float64(cents) / 100
		gst, net := GSTComponents(total)
		assert.InDelta(t, total, gst+net, 0.01, "total=%.2f", total)
		assert.GreaterOrEqual(t, gst, 0.0)
		assert.GreaterOrEqual(t, net, 0.0)
	}
}

func TestRoundCentsHalfUp(t *testing.T) {
	assert.Equal(t, 0.13, RoundCents(0.125))
	assert.Equal(t, 1.00, RoundCents(1.004))
	assert.Equal(t, 0.00, RoundCents(0.004))
	assert.Equal(t, 11.22, RoundCents(123.45/11))
}
