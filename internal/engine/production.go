// Resource availability, carrying capacity and density feedback.
package engine

import (
	"math"

	"github.com/talgya/colonysim/internal/biology"
	"github.com/talgya/colonysim/internal/params"
)

// ResourceScore blends food, water, shelter and feeding inputs into a raw
// score in [0, 2]. Every input contributes with a positive weight, so raising
// any of them never lowers the score.
func ResourceScore(p params.Set) float64 {
	frequency := math.Min(p.FeedingFrequency/biology.ReferenceFeedings, 1)
	blend := biology.WeightFood*p.BaseFoodCapacity*p.FoodScalingFactor +
		biology.WeightWater*p.WaterAvailability +
		biology.WeightShelter*p.ShelterQuality +
		biology.WeightFrequency*frequency +
		biology.WeightConsistency*p.FeedingConsistency
	return 2 * blend
}

// ResourceFactor squashes a raw score through a logistic curve into
// (ResourceFloor, ResourceCeiling). This is the only resource formula in the
// model; births and density mortality both read it.
func ResourceFactor(raw float64) float64 {
	span := biology.ResourceCeiling - biology.ResourceFloor
	return biology.ResourceFloor + span/(1+math.Exp(-biology.ResourceSteepness*(raw-biology.ResourceMidpoint)))
}

// CarryingCapacity is the number of cats the territory supports before
// crowding suppresses births and adds mortality. The floor keeps tiny
// territories from producing a zero or negative capacity.
func CarryingCapacity(territorySize, densityThreshold float64) float64 {
	return math.Max(biology.CapacityFloor, territorySize*densityThreshold*biology.CapacityScale)
}

// DensityImpact is 0 at or below capacity and ramps linearly to 1 at
// 1 + 1/DensitySlope times capacity.
func DensityImpact(total, capacity float64) float64 {
	density := total / capacity
	return clamp01((density - 1) * biology.DensitySlope)
}

// DensityMortality is the extra monthly death rate from crowding. Poor
// resources make crowding deadlier; the rate never exceeds
// MaxDensityMortality.
func DensityMortality(impact, resourceFactor float64) float64 {
	if impact <= 0 {
		return 0
	}
	// (1 - resourceFactor) spans (0, 0.5); normalize it to (0, 1).
	scarcity := (biology.ResourceCeiling - resourceFactor) / (biology.ResourceCeiling - biology.ResourceFloor)
	return math.Min(biology.MaxDensityMortality, biology.MaxDensityMortality*impact*clamp01(scarcity))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
