package scheduler

import (
	"testing"
	"time"
)

func TestNextRunDeterministic(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

	for _, freq := range []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly} {
		a := NextRun(freq, now)
		b := NextRun(freq, now)
		if !a.Equal(b) {
			t.Errorf("%s: NextRun not deterministic: %v vs %v", freq, a, b)
		}
		if !a.After(now) {
			t.Errorf("%s: next run %v not after now %v", freq, a, now)
		}
	}
}

func TestNextRunIntervals(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

	if got := NextRun(FrequencyDaily, now); !got.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("daily = %v", got)
	}
	if got := NextRun(FrequencyWeekly, now); !got.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Errorf("weekly = %v", got)
	}
	if got, want := NextRun(FrequencyMonthly, now), time.Date(2026, time.April, 1, 4, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("monthly = %v, want %v", got, want)
	}
	if got, want := NextRun(FrequencyQuarterly, now), time.Date(2026, time.April, 1, 5, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("quarterly = %v, want %v", got, want)
	}
}

func TestNextRunYearRollover(t *testing.T) {
	december := time.Date(2026, time.December, 20, 23, 0, 0, 0, time.UTC)

	if got, want := NextRun(FrequencyMonthly, december), time.Date(2027, time.January, 1, 4, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("december monthly = %v, want %v", got, want)
	}
	if got, want := NextRun(FrequencyQuarterly, december), time.Date(2027, time.January, 1, 5, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("q4 quarterly = %v, want %v", got, want)
	}
}

func TestParseFrequency(t *testing.T) {
	if _, err := ParseFrequency("weekly"); err != nil {
		t.Errorf("weekly should parse: %v", err)
	}
	if _, err := ParseFrequency("hourly"); err == nil {
		t.Error("hourly should be rejected")
	}
}
