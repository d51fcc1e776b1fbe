// Package derive computes the display metrics of the portfolio views from raw
// records. Every function is pure: no I/O and no shared state.
package derive

import "math"

// Percentage bounds of a progress bar.
const (
	minPercent = 0
	maxPercent = 100
)

// Progress returns how far current has moved from initial towards target, as
// a percentage clamped to [0, 100].
//
// When target equals initial the ratio is undefined; the result is 0 if
// current has not moved past initial and 100 otherwise.
func Progress(initial, target, current float64) float64 {
	return clamp(rawPercent(initial, target, current))
}

// RawProgress returns the unclamped progress percentage rounded to one decimal.
// It can exceed 100 when current overshoots target, or go negative.
func RawProgress(initial, target, current float64) float64 {
	p := rawPercent(initial, target, current)
	if math.Abs(p) >= 1<<52 {
		// No fractional digits left to round; also keeps p*10 finite.
		return p
	}
	return math.Round(p*10) / 10
}

// ProgressLabel returns the unclamped progress truncated to a whole percent,
// which is what the on-screen percentage text shows. It saturates at the
// int32 range.
func ProgressLabel(initial, target, current float64) int {
	p := math.Floor(rawPercent(initial, target, current))
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, p)))
}

// rawPercent multiplies before dividing so that exact ratios such as 24/25
// stay exact (96, not 95.99...). Near the float64 limits the product can
// overflow while the ratio cannot; it then divides first.
func rawPercent(initial, target, current float64) float64 {
	span := target - initial
	if span == 0 {
		if current <= initial {
			return minPercent
		}
		return maxPercent
	}
	delta := current - initial
	p := delta * maxPercent / span
	if math.IsInf(delta*maxPercent, 0) && !math.IsInf(delta, 0) {
		p = delta / span * maxPercent
	}
	if math.IsNaN(p) {
		return minPercent
	}
	return p
}

func clamp(p float64) float64 {
	return math.Max(minPercent, math.Min(maxPercent, p))
}
