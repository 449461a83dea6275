package domain

import (
	"cmp"
	"fmt"
	"slices"
)

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const maxBestHours = 10

// TimeSlot is the engagement outlook of one posting slot.
type TimeSlot struct {
	Hour    int    `json:"hour"`
	Day     string `json:"day"`
	Score   int    `json:"score"`
	Quality string `json:"quality"`
}

// BestHour is a recommended posting hour.
type BestHour struct {
	Hour       int     `json:"hour"`
	Time       string  `json:"time"`
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// PostingWindow summarizes when to post.
type PostingWindow struct {
	Current        TimeSlot   `json:"current"`
	BestHours      []BestHour `json:"best_hours"`
	BestDays       []string   `json:"best_days"`
	Recommendation string     `json:"recommendation"`
}

// PostingWindows rates the given slot and lists the best hours and days.
// Nil hour or day means now on the engine clock.
func (e *Engine) PostingWindows(hour, day *int) PostingWindow {
	t := e.tables
	h, d := e.slot(hour, day)
	mult := t.HourMultiplier(h)

	w := PostingWindow{
		Current: TimeSlot{
			Hour:    h,
			Day:     dayNames[d],
			Score:   int(mult*100 + 0.5),
			Quality: timingQuality(mult),
		},
		BestHours: []BestHour{},
		BestDays:  []string{},
	}

	for hr, m := range t.HourMultipliers {
		if m < 1.0 {
			continue
		}
		label := "Good"
		if m >= 1.2 {
			label = "Peak"
		}
		w.BestHours = append(w.BestHours, BestHour{
			Hour:       hr,
			Time:       fmt.Sprintf("%02d:00", hr),
			Multiplier: m,
			Label:      label,
		})
	}
	slices.SortStableFunc(w.BestHours, func(a, b BestHour) int {
		if c := cmp.Compare(b.Multiplier, a.Multiplier); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})
	if len(w.BestHours) > maxBestHours {
		w.BestHours = w.BestHours[:maxBestHours]
	}

	for i, m := range t.DayMultipliers {
		if m > 1.0 {
			w.BestDays = append(w.BestDays, dayNames[i])
		}
	}

	switch w.Current.Quality {
	case "Excellent":
		w.Recommendation = "Great time to post! Engagement is at peak levels."
	case "Good":
		w.Recommendation = "Good time to post. Engagement is above average."
	default:
		w.Recommendation = "Consider waiting. Engagement is lower right now."
	}

	return w
}

// NextBestHour returns the first hour at or after h with the highest multiplier.
func (e *Engine) NextBestHour(h int) int {
	t := e.tables
	best, bestMult := wrap(h, 24), -1.0
	for i := range 24 {
		hr := wrap(h+i, 24)
		if m := t.HourMultiplier(hr); m > bestMult {
			best, bestMult = hr, m
		}
	}

	return best
}
