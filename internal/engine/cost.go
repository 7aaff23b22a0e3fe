// Monthly caretaking cost.
package engine

import (
	"math"

	"github.com/talgya/colonysim/internal/biology"
	"github.com/talgya/colonysim/internal/params"
)

// FoodCost is the month's feeding bill. Poorer natural food, scaling and
// consistency raise the per-cat cost; no scheduled feeding costs nothing.
func FoodCost(population float64, p params.Set) float64 {
	if p.FeedingFrequency == 0 || population <= 0 {
		return 0
	}
	scarcity := (2 - p.BaseFoodCapacity) * (2 - p.FoodScalingFactor) * (2 - p.FeedingConsistency)
	schedule := math.Min(p.FeedingFrequency/biology.ReferenceFeedings, biology.MaxFeedingCostMultiplier)
	return population * p.FoodCostPerCat * scarcity * schedule
}

// SterilizationCost is the month's veterinary bill.
func SterilizationCost(sterilizations float64, p params.Set) float64 {
	return sterilizations * p.SterilizationCost
}
