// Package schedule computes trigger instants for one-shot and weekly
// recurring alarms and maps registrations onto collision-free timer handles.
package schedule

import (
	"time"

	"wakeup/internal/models"
)

// NextOneShot returns the next local instant matching hour:minute. If that
// wall-clock time today is not strictly after now, it rolls forward one day.
func NextOneShot(now time.Time, hour, minute int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// NextWeekly returns the next occurrence of weekday at hour:minute strictly
// after now, at most 7 days out.
func NextWeekly(now time.Time, weekday models.Weekday, hour, minute int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	diff := (int(weekday.Time()) - int(now.Weekday()) + 7) % 7
	t = t.AddDate(0, 0, diff)
	if !t.After(now) {
		t = t.AddDate(0, 0, 7)
	}
	return t
}
