// Package analysis turns wake history into a trend summary: mean sleep
// hours, per-weekday hours and a rule-selected comment. A deterministic
// rule engine, not a learned model.
package analysis

import (
	"log"
	"math"
	"time"

	"wakeup/internal/models"
)

// InsufficientDataComment is returned when there is nothing to analyze.
const InsufficientDataComment = "Not enough data yet. Start recording from today!"

// bedtimeHour is the assumed bedtime: sleep duration is measured from 23:00
// the previous night to the recorded wake time.
const bedtimeHour = 23

// Result buckets hours Monday-first (index 0 = Monday .. 6 = Sunday).
type Result struct {
	MeanHours       float64    `json:"mean_hours"`
	Comment         string     `json:"comment"`
	PerWeekdayHours [7]float64 `json:"per_weekday_hours"`
}

// Analyze aggregates wake records. Records whose date or time cannot be
// parsed are skipped, not fatal. When several records land on the same
// weekday the longest duration wins, modeling the latest wake of that day.
func Analyze(records []models.WakeRecord) Result {
	if len(records) == 0 {
		return Result{Comment: InsufficientDataComment}
	}

	var daily [7]float64
	durations := make([]float64, 0, len(records))

	for _, r := range records {
		t, err := time.ParseInLocation("2006.01.02 15:04", r.Date+" "+r.Time, time.Local)
		if err != nil {
			log.Printf("Skipping unparseable wake record %d (%q %q): %v", r.ID, r.Date, r.Time, err)
			continue
		}

		idx := models.FromTime(t.Weekday())
		wakeHour := float64(t.Hour()) + float64(t.Minute())/60

		duration := float64(24-bedtimeHour) + wakeHour
		if duration > daily[idx] {
			daily[idx] = duration
		}
		durations = append(durations, duration)
	}

	if len(durations) == 0 {
		return Result{Comment: InsufficientDataComment}
	}

	sum := 0.0
	for _, d := range durations {
		sum += d
	}
	mean := sum / float64(len(durations))

	variance := 0.0
	for _, d := range durations {
		variance += (d - mean) * (d - mean)
	}
	deviation := 0.0
	if len(durations) > 1 {
		deviation = math.Sqrt(variance / float64(len(durations)))
	}

	return Result{
		MeanHours:       math.Round(mean*10) / 10,
		Comment:         buildComment(mean, deviation),
		PerWeekdayHours: daily,
	}
}

// buildComment concatenates a regularity clause picked by the deviation and
// a sufficiency clause picked by the mean.
func buildComment(mean, deviation float64) string {
	var regularity string
	switch {
	case deviation < 0.5:
		regularity = "Your sleep pattern is as steady as clockwork!"
	case deviation < 1.5:
		regularity = "Your sleep schedule is fairly regular."
	default:
		regularity = "Your sleep times are irregular. Try waking up at a consistent hour."
	}

	var sufficiency string
	switch {
	case mean < 5.0:
		sufficiency = "You are getting far too little sleep. Aim for at least six hours for your health."
	case mean < 7.0:
		sufficiency = "You may be feeling tired. How about going to bed thirty minutes earlier?"
	case mean <= 9.0:
		sufficiency = "Your amount of sleep is ideal. You are managing your condition well!"
	default:
		sufficiency = "You sleep a little more than needed. Light morning exercise could bring back some energy!"
	}

	return regularity + " " + sufficiency
}
