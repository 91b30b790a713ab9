package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fardannozami/dailyreport/internal/domain"
)

type View string

const (
	ViewDaily   View = "daily"
	ViewMonthly View = "monthly"
	ViewYearly  View = "yearly"
)

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewDaily, ViewMonthly, ViewYearly:
		return v, nil
	case "":
		return ViewDaily, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// CompletionRate is round(completed / (completed + pending) * 100). Planned tasks are
// not part of the ratio, and zero completed plus zero pending gives 0.
func CompletionRate(completed, pending int) int {
	total := completed + pending
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Reader is the read side of Store used by the display helpers.
type Reader interface {
	GetAllReports() []domain.DailyReport
	GetReportsByUserID(userID string) []domain.DailyReport
	GetSharedReports(userID string) []domain.DailyReport
}

// Visible returns the reports viewer may see, collapsed by ID and ordered newest Date first.
// Managers see every report; members see their own. Both also see reports shared with them.
func Visible(viewer domain.User, store Reader) []domain.DailyReport {
	var reports []domain.DailyReport
	if viewer.IsManager() {
		reports = store.GetAllReports()
	} else {
		reports = store.GetReportsByUserID(viewer.ID)
	}
	reports = append(reports, store.GetSharedReports(viewer.ID)...)

	out := Dedupe(reports)
	SortNewestFirst(out)
	return out
}

// Dedupe keeps the first occurrence of every report ID.
func Dedupe(reports []domain.DailyReport) []domain.DailyReport {
	seen := make(map[string]bool, len(reports))
	out := make([]domain.DailyReport, 0, len(reports))
	for _, r := range reports {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// SortNewestFirst orders by Date descending. Ties keep their relative order and
// unparseable dates sort last.
func SortNewestFirst(reports []domain.DailyReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		di, oki := reports[i].Day()
		dj, okj := reports[j].Day()
		if oki != okj {
			return oki
		}
		return di.After(dj)
	})
}

type Group struct {
	Key     string               `json:"key"`
	Reports []domain.DailyReport `json:"reports"`
}

// GroupKey formats the bucket label of a report date for view.
func GroupKey(day time.Time, view View) string {
	switch view {
	case ViewMonthly:
		return day.Format("January 2006")
	case ViewYearly:
		return day.Format("2006")
	default:
		return day.Format("January 2, 2006")
	}
}

// GroupReports buckets reports by GroupKey, keeping buckets in first-seen order. Reports
// with an unparseable Date are left out.
func GroupReports(reports []domain.DailyReport, view View) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, r := range reports {
		day, ok := r.Day()
		if !ok {
			continue
		}
		key := GroupKey(day, view)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Reports = append(groups[i].Reports, r)
	}
	return groups
}

type Summary struct {
	Reports        int `json:"reports"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	Planned        int `json:"planned"`
	Total          int `json:"total"`
	CompletionRate int `json:"completionRate"`
}

func Summarize(reports []domain.DailyReport) Summary {
	c, p, n := countTasks(reports)
	return Summary{
		Reports:        len(reports),
		Completed:      c,
		Pending:        p,
		Planned:        n,
		Total:          c + p + n,
		CompletionRate: CompletionRate(c, p),
	}
}

func MonthlyRate(m domain.MonthlyReport) int {
	return CompletionRate(m.CompletedTasks, m.PendingTasks)
}

func YearlyRate(y domain.YearlyReport) int {
	return CompletionRate(y.CompletedTasks, y.PendingTasks)
}

// OverviewCounts holds the number of reports dated today, this month and this year.
type OverviewCounts struct {
	Today int `json:"today"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Overview counts reports relative to now.
func Overview(reports []domain.DailyReport, now time.Time) OverviewCounts {
	var o OverviewCounts
	today := now.Format(domain.DateLayout)
	for _, r := range reports {
		day, ok := r.Day()
		if !ok || day.Year() != now.Year() {
			continue
		}
		o.Year++
		if day.Month() == now.Month() {
			o.Month++
		}
		if r.Date == today {
			o.Today++
		}
	}
	return o
}

// NewTasks turns descriptions into tasks with fresh IDs, skipping blank entries.
func NewTasks(descriptions []string, status domain.TaskStatus, date string) []domain.Task {
	tasks := make([]domain.Task, 0, len(descriptions))
	for _, d := range descriptions {
		if d == "" {
			continue
		}
		tasks = append(tasks, domain.Task{
			ID:          uuid.NewString(),
			Description: d,
			Status:      status,
			Date:        date,
		})
	}
	return tasks
}
