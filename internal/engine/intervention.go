// Interventions: sterilization and abandonment.
package engine

import "math"

// sterilize moves up to rate cats from unsterilized to sterilized and
// returns how many were moved.
func sterilize(s ColonyState, rate float64) (ColonyState, float64) {
	n := math.Min(rate, s.Unsterilized)
	if n <= 0 {
		return s, 0
	}
	s.Unsterilized -= n
	s.Sterilized += n
	return s, n
}

// abandon adds newly abandoned cats. They arrive unsterilized.
func abandon(s ColonyState, count float64) (ColonyState, float64) {
	if count <= 0 {
		return s, 0
	}
	s.Unsterilized += count
	return s, count
}
