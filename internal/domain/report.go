package domain

import (
	"errors"
	"time"
)

// DateLayout is the calendar-day format of DailyReport.Date and Task.Date.
const DateLayout = "2006-01-02"

var (
	ErrReportNotFound = errors.New("report not found")
	ErrTaskNotFound   = errors.New("task not found")
)

type TaskStatus string

const (
	TaskCompleted TaskStatus = "completed"
	TaskPending   TaskStatus = "pending"
)

type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportSubmitted ReportStatus = "submitted"
	ReportShared    ReportStatus = "shared"
)

type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Date        string     `json:"date"`
}

type DailyReport struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	UserName    string       `json:"userName,omitempty"`
	Date        string       `json:"date"`
	Completed   []Task       `json:"completed"`
	Pending     []Task       `json:"pending"`
	NextDayPlan []Task       `json:"nextDayPlan"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	SharedWith  []string     `json:"sharedWith"`
	Status      ReportStatus `json:"status"`
}

// Day parses Date. ok is false when Date is not a valid calendar day.
func (r DailyReport) Day() (day time.Time, ok bool) {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsSharedWith reports whether userID is in SharedWith.
func (r DailyReport) IsSharedWith(userID string) bool {
	for _, id := range r.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never alias a store's slices.
func (r DailyReport) Clone() DailyReport {
	c := r
	c.Completed = cloneTasks(r.Completed)
	c.Pending = cloneTasks(r.Pending)
	c.NextDayPlan = cloneTasks(r.NextDayPlan)
	c.SharedWith = append([]string{}, r.SharedWith...)
	return c
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// MonthlyReport is derived on request and never persisted. Month is zero-based (0 = January).
type MonthlyReport struct {
	Month          int           `json:"month"`
	Year           int           `json:"year"`
	TotalReports   int           `json:"totalReports"`
	CompletedTasks int           `json:"completedTasks"`
	PendingTasks   int           `json:"pendingTasks"`
	PlannedTasks   int           `json:"plannedTasks"`
	Reports        []DailyReport `json:"reports"`
}

// YearlyReport is derived on request. MonthlyStats always has twelve entries, index 0 = January.
type YearlyReport struct {
	Year           int             `json:"year"`
	MonthlyStats   []MonthlyReport `json:"monthlyStats"`
	TotalReports   int             `json:"totalReports"`
	CompletedTasks int             `json:"completedTasks"`
	PendingTasks   int             `json:"pendingTasks"`
	PlannedTasks   int             `json:"plannedTasks"`
}
