package extraction

import "math"

// RoundCents rounds a non-negative amount to two decimals, half rounding
// up. This is the single rounding rule for all derived money values.
func RoundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// GSTComponents derives the GST and net portions of a tax-inclusive
// total under the 10% GST scheme: GST is 1/11 of the total, net is the
// remainder. A zero (unmatched) total yields zero for both. The two
// components always sum back to the total within a cent.
func GSTComponents(total float64) (gst, net float64) {
	if total <= 0 {
		return 0, 0
	}
	gst = RoundCents(total / 11)
	net = RoundCents(total - gst)
	return gst, net
}
