package domain

import (
	"slices"
	"testing"
)

func TestPostingWindows(t *testing.T) {
	w := NewEngine(nil).PostingWindows(intPtr(12), intPtr(0))

	if w.Current.Hour != 12 || w.Current.Day != "Mon" {
		t.Errorf("Current = %+v, want 12/Mon", w.Current)
	}
	if w.Current.Score != 140 || w.Current.Quality != "Excellent" {
		t.Errorf("Current = %+v, want score 140 Excellent", w.Current)
	}

	hours := make([]int, 0, len(w.BestHours))
	for _, h := range w.BestHours {
		hours = append(hours, h.Hour)
	}
	// 13 hours are ≥1.0; ordered by multiplier, then hour, cut to 10
	want := []int{12, 19, 11, 13, 18, 20, 10, 21, 9, 14}
	if !slices.Equal(hours, want) {
		t.Errorf("BestHours = %v, want %v", hours, want)
	}
	if w.BestHours[0].Label != "Peak" || w.BestHours[0].Time != "12:00" {
		t.Errorf("first best hour = %+v", w.BestHours[0])
	}
	if w.BestHours[9].Label != "Good" {
		t.Errorf("last best hour label = %s, want Good", w.BestHours[9].Label)
	}
	if !slices.Equal(w.BestDays, []string{"Mon", "Tue", "Wed", "Thu"}) {
		t.Errorf("BestDays = %v", w.BestDays)
	}
}

func TestPostingWindows_LowSlot(t *testing.T) {
	w := NewEngine(nil).PostingWindows(intPtr(3), intPtr(6))

	if w.Current.Quality != "Low" || w.Current.Score != 20 || w.Current.Day != "Sun" {
		t.Errorf("Current = %+v", w.Current)
	}
	if w.Recommendation == "" {
		t.Error("expected a recommendation")
	}
}

func TestNextBestHour(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		from, expected int
	}{
		{0, 12},
		{12, 12},
		{13, 19},
		{20, 12},
		{-1, 12},
	}

	for _, tt := range tests {
		if got := engine.NextBestHour(tt.from); got != tt.expected {
			t.Errorf("NextBestHour(%d) = %d, want %d", tt.from, got, tt.expected)
		}
	}
}
