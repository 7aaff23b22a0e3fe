// Seasonal breeding modifier.
package engine

import "math"

// SeasonalFactor returns the breeding modifier for a calendar month. It is
// 1 in the peak month and falls to 1-amplitude six months away, following a
// raised cosine sharpened by a 1.5 power.
func SeasonalFactor(calendarMonth, peakMonth int, amplitude float64) float64 {
	diff := ((calendarMonth-peakMonth+6)%12+12)%12 - 6
	if diff < 0 {
		diff = -diff
	}
	base := math.Pow(0.5*(1+math.Cos(2*math.Pi*float64(diff)/12)), 1.5)
	return 1 - amplitude*(1-base)
}
