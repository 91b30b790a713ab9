package report

import (
	"time"

	"github.com/fardannozami/dailyreport/internal/domain"
)

// Streak counts the consecutive calendar days with at least one report, ending today.
// A streak whose last day is yesterday is still alive, since today can still be reported.
func Streak(reports []domain.DailyReport, today time.Time) int {
	days := make(map[string]bool, len(reports))
	for _, r := range reports {
		if _, ok := r.Day(); ok {
			days[r.Date] = true
		}
	}

	cursor := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !days[cursor.Format(domain.DateLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for days[cursor.Format(domain.DateLayout)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// LastReported returns the most recent valid report Date, or false when there is none.
func LastReported(reports []domain.DailyReport) (time.Time, bool) {
	var last time.Time
	found := false
	for _, r := range reports {
		day, ok := r.Day()
		if ok && (!found || day.After(last)) {
			last, found = day, true
		}
	}
	return last, found
}
