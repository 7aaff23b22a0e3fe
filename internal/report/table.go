package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// WriteTable prints a human-readable summary and the monthly series.
func WriteTable(w io.Writer, r *Response) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := fmt.Sprintf("Colony projection (%s, seed %d", r.Mode, r.Seed)
	if r.IsMonteCarlo() {
		header += ", " + humanize.Comma(int64(r.Trials)) + " trials"
	}
	fmt.Fprintln(tw, header+")")
	fmt.Fprintln(tw)

	row := func(label, value string, lo, hi *float64, format func(float64) string) {
		if lo != nil && hi != nil {
			fmt.Fprintf(tw, "%s\t%s\t[%s to %s]\n", label, value, format(*lo), format(*hi))
			return
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", label, value)
	}

	row("Initial population", catsString(r.InitialPopulation), nil, nil, catsString)
	row("Final population", catsString(r.FinalPopulation), r.FinalPopulationLower, r.FinalPopulationUpper, catsString)
	row("Population change", signedCats(r.PopulationChange), r.PopulationChangeLower, r.PopulationChangeUpper, signedCats)
	row("Sterilized share", percent(r.SterilizationRate), r.SterilizationRateLower, r.SterilizationRateUpper, percent)
	row("Total cost", money(r.TotalCost), r.TotalCostLower, r.TotalCostUpper, money)
	row("  food", money(r.CostBreakdown.Food), r.CostBreakdown.FoodLower, r.CostBreakdown.FoodUpper, money)
	row("  sterilization", money(r.CostBreakdown.Sterilization), r.CostBreakdown.SterilizationLower, r.CostBreakdown.SterilizationUpper, money)

	m := r.Mortality
	row("Deaths", catsString(m.TotalDeaths), m.TotalDeathsLower, m.TotalDeathsUpper, catsString)
	row("  kitten", catsString(m.KittenDeaths), m.KittenDeathsLower, m.KittenDeathsUpper, catsString)
	row("  adult", catsString(m.AdultDeaths), m.AdultDeathsLower, m.AdultDeathsUpper, catsString)
	row("  natural", catsString(m.NaturalDeaths), m.NaturalDeathsLower, m.NaturalDeathsUpper, catsString)
	row("  urban", catsString(m.UrbanDeaths), m.UrbanDeathsLower, m.UrbanDeathsUpper, catsString)
	row("  disease", catsString(m.DiseaseDeaths), m.DiseaseDeathsLower, m.DiseaseDeathsUpper, catsString)
	row("  density", catsString(m.DensityDeaths), m.DensityDeathsLower, m.DensityDeathsUpper, catsString)
	row("Mortality rate", percent(m.MortalityRate), m.MortalityRateLower, m.MortalityRateUpper, percent)

	fmt.Fprintln(tw)
	if r.IsMonteCarlo() {
		fmt.Fprintln(tw, "Month\tTotal\tLower\tUpper\tSterilized\tUnsterilized")
		for i, month := range r.Months {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", month,
				catsString(r.TotalPopulation[i]),
				catsString(r.TotalPopulationLower[i]),
				catsString(r.TotalPopulationUpper[i]),
				catsString(r.SterilizedPopulation[i]),
				catsString(r.UnsterilizedPopulation[i]))
		}
	} else {
		fmt.Fprintln(tw, "Month\tSeason\tTotal\tSterilized\tUnsterilized\tBirths\tDeaths\tCost")
		for i, month := range r.Months {
			season := ""
			var births, deaths, cost float64
			if i < len(r.Records) {
				rec := r.Records[i]
				season = rec.Season
				births, deaths, cost = cats(rec.Births), cats(rec.Deaths.Total()), cents(rec.Cost)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", month, season,
				catsString(r.TotalPopulation[i]),
				catsString(r.SterilizedPopulation[i]),
				catsString(r.UnsterilizedPopulation[i]),
				catsString(births),
				catsString(deaths),
				money(cost))
		}
	}
	return tw.Flush()
}

func catsString(v float64) string {
	return humanize.Comma(int64(cats(v)))
}

func signedCats(v float64) string {
	s := catsString(v)
	if v > 0 {
		return "+" + s
	}
	return s
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
