package engine

// ColonyState is the population at the boundary between two months.
// Counts are fractional internally and rounded only for presentation.
type ColonyState struct {
	Unsterilized float64 `json:"unsterilized"`
	Sterilized   float64 `json:"sterilized"`
}

// Total returns the whole colony.
func (s ColonyState) Total() float64 {
	return s.Unsterilized + s.Sterilized
}

// InitialState derives the month-0 state from colony size and the number
// already sterilized.
func InitialState(colonySize, alreadySterilized float64) ColonyState {
	return ColonyState{
		Unsterilized: colonySize - alreadySterilized,
		Sterilized:   alreadySterilized,
	}
}

// Deaths counts one month's (or a run's) deaths by cause. Kitten and Adult
// are baseline age-specific mortality; the rest are additional causes.
type Deaths struct {
	Kitten  float64 `json:"kitten"`
	Adult   float64 `json:"adult"`
	Natural float64 `json:"natural"`
	Urban   float64 `json:"urban"`
	Disease float64 `json:"disease"`
	Density float64 `json:"density"`
}

// Total sums every cause.
func (d Deaths) Total() float64 {
	return d.Kitten + d.Adult + d.Natural + d.Urban + d.Disease + d.Density
}

// Add returns the cause-wise sum of d and o.
func (d Deaths) Add(o Deaths) Deaths {
	return Deaths{
		Kitten:  d.Kitten + o.Kitten,
		Adult:   d.Adult + o.Adult,
		Natural: d.Natural + o.Natural,
		Urban:   d.Urban + o.Urban,
		Disease: d.Disease + o.Disease,
		Density: d.Density + o.Density,
	}
}

// MonthlyRecord is the audit trail of a single month. Population fields are
// end-of-month values.
type MonthlyRecord struct {
	Month         int    `json:"month"`
	CalendarMonth int    `json:"calendarMonth"`
	Season        string `json:"season"`

	Total        float64 `json:"total"`
	Sterilized   float64 `json:"sterilized"`
	Unsterilized float64 `json:"unsterilized"`

	Births         float64 `json:"births"`
	Deaths         Deaths  `json:"deaths"`
	Sterilizations float64 `json:"sterilizations"`
	Abandoned      float64 `json:"abandoned"`

	FoodCost          float64 `json:"foodCost"`
	SterilizationCost float64 `json:"sterilizationCost"`
	Cost              float64 `json:"cost"`

	SeasonalFactor float64 `json:"seasonalFactor"`
	ResourceFactor float64 `json:"resourceFactor"`
	Capacity       float64 `json:"capacity"`
	DensityImpact  float64 `json:"densityImpact"`
}
