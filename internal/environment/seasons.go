package environment

// Season constants (northern hemisphere, meteorological).
const (
	SeasonWinter = 0
	SeasonSpring = 1
	SeasonSummer = 2
	SeasonAutumn = 3
)

// CalendarMonth maps a 1-based simulation month onto a calendar month
// (1–12) given the calendar month the simulation starts in.
func CalendarMonth(startMonth, month int) int {
	return ((startMonth-1+month-1)%12+12)%12 + 1
}

// SeasonOf returns the season of a calendar month.
func SeasonOf(calendarMonth int) uint8 {
	switch calendarMonth {
	case 12, 1, 2:
		return SeasonWinter
	case 3, 4, 5:
		return SeasonSpring
	case 6, 7, 8:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// SeasonName returns a human-readable season name.
func SeasonName(season uint8) string {
	switch season {
	case SeasonWinter:
		return "Winter"
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	default:
		return "Unknown"
	}
}
