package report

import (
	"sort"
	"time"

	"github.com/fardannozami/dailyreport/internal/domain"
)

type ActivityType string

const (
	ActivityCreated ActivityType = "created"
	ActivityUpdated ActivityType = "updated"
	ActivityShared  ActivityType = "shared"
)

type Activity struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	At         time.Time    `json:"date"`
	ReportID   string       `json:"reportId"`
	ReportDate string       `json:"reportDate"`
	Text       string       `json:"text"`
}

var activityText = map[ActivityType]string{
	ActivityCreated: "Created a new report",
	ActivityUpdated: "Updated report",
	ActivityShared:  "Shared report with manager",
}

func newActivity(r domain.DailyReport, t ActivityType, at time.Time) Activity {
	return Activity{
		ID:         r.ID + "-" + string(t),
		Type:       t,
		At:         at,
		ReportID:   r.ID,
		ReportDate: r.Date,
		Text:       activityText[t],
	}
}

// Activities derives the activity log of reports, newest first. Every report has a
// created entry; an updated entry appears once UpdatedAt moved past CreatedAt and a
// shared entry (stamped with UpdatedAt) once the report is shared.
func Activities(reports []domain.DailyReport) []Activity {
	var out []Activity
	for _, r := range reports {
		out = append(out, newActivity(r, ActivityCreated, r.CreatedAt))
		if !r.UpdatedAt.Equal(r.CreatedAt) {
			out = append(out, newActivity(r, ActivityUpdated, r.UpdatedAt))
		}
		if r.Status == domain.ReportShared {
			out = append(out, newActivity(r, ActivityShared, r.UpdatedAt))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out
}
