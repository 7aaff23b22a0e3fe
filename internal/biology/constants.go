// Package biology holds the fixed coefficients of the colony model.
// Everything tunable by a caller lives in params; these are the structural
// constants the formulas are built on.
package biology

// Age structure.
const (
	// KittenRatioHeuristic is the assumed share of kittens in the colony.
	// The model tracks totals only, not cohorts, so kitten and adult deaths
	// are attributed with this fixed split.
	KittenRatioHeuristic = 0.3

	// MonthsPerYear converts annual rates to monthly ones.
	MonthsPerYear = 12.0
)

// Stochastic jitter bounds applied to monthly rates.
const (
	JitterMin = 0.7
	JitterMax = 1.3
)

// Carrying capacity and density feedback.
const (
	// CapacityScale converts territory (m²) × density threshold
	// (cats per 100 m²) into cats.
	CapacityScale = 0.01

	// CapacityFloor keeps tiny territories from producing a zero capacity.
	CapacityFloor = 10.0

	// DensitySlope ramps impact from 0 at capacity to 1 at
	// 1 + 1/DensitySlope times capacity.
	DensitySlope = 0.5

	// MaxDensityMortality bounds the extra monthly death rate from crowding.
	MaxDensityMortality = 0.2
)

// Resource availability blend. Weights sum to 1; the raw score is twice the
// weighted mean so it spans [0, 2] with 1 as the midpoint of the sigmoid.
const (
	WeightFood        = 0.35
	WeightWater       = 0.15
	WeightShelter     = 0.15
	WeightFrequency   = 0.20
	WeightConsistency = 0.15

	// ResourceSteepness is the logistic slope around the midpoint.
	ResourceSteepness = 4.0

	// ResourceMidpoint is the raw score mapped to the middle of the output range.
	ResourceMidpoint = 1.0

	// ResourceFloor and ResourceCeiling bound the resource factor.
	ResourceFloor   = 0.5
	ResourceCeiling = 1.0
)

// Feeding schedule.
const (
	// ReferenceFeedings is twice-daily feeding per week.
	ReferenceFeedings = 14.0

	// MaxFeedingCostMultiplier caps the food-cost scale for over-feeding.
	MaxFeedingCostMultiplier = 1.5
)
