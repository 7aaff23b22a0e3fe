package environment

import "testing"

func TestFlatFieldWithoutVariability(t *testing.T) {
	f := NewField(42, 0)
	for m := 1; m <= 24; m++ {
		if got := f.Multiplier(m); got != 1 {
			t.Fatalf("month %d multiplier = %v, want 1", m, got)
		}
	}

	var nilField *Field
	if got := nilField.Multiplier(3); got != 1 {
		t.Errorf("nil field multiplier = %v, want 1", got)
	}
}

func TestFieldBoundedAndDeterministic(t *testing.T) {
	a := NewField(7, 0.3)
	b := NewField(7, 0.3)
	varied := false
	for m := 1; m <= 60; m++ {
		d := a.Drift(m)
		if d < -1 || d > 1 {
			t.Fatalf("month %d drift %v out of [-1, 1]", m, d)
		}
		mult := a.Multiplier(m)
		if mult < 0.7 || mult > 1.3 {
			t.Fatalf("month %d multiplier %v out of [0.7, 1.3]", m, mult)
		}
		if mult != b.Multiplier(m) {
			t.Fatalf("month %d: same seed gave different multipliers", m)
		}
		if mult != 1 {
			varied = true
		}
	}
	if !varied {
		t.Error("expected some drift with non-zero variability")
	}
}

func TestCalendarMonth(t *testing.T) {
	tests := []struct {
		start, month, want int
	}{
		{1, 1, 1},
		{1, 12, 12},
		{1, 13, 1},
		{11, 1, 11},
		{11, 3, 1},
		{6, 60, 5},
	}
	for _, tt := range tests {
		if got := CalendarMonth(tt.start, tt.month); got != tt.want {
			t.Errorf("CalendarMonth(%d, %d) = %d, want %d", tt.start, tt.month, got, tt.want)
		}
	}
}

func TestSeasonOf(t *testing.T) {
	if SeasonName(SeasonOf(1)) != "Winter" {
		t.Error("January should be Winter")
	}
	if SeasonName(SeasonOf(5)) != "Spring" {
		t.Error("May should be Spring")
	}
	if SeasonName(SeasonOf(7)) != "Summer" {
		t.Error("July should be Summer")
	}
	if SeasonName(SeasonOf(10)) != "Autumn" {
		t.Error("October should be Autumn")
	}
}
