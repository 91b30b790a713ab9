package report_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fardannozami/dailyreport/internal/app/persist"
	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
	"github.com/fardannozami/dailyreport/internal/logging"
)

// =============================================================================
// REPORT STORE TESTS
// =============================================================================
//
// Store rules:
// 1. AddReport stamps id, createdAt = updatedAt, status submitted, empty sharedWith
// 2. UpdateReport on an unknown id changes nothing and returns ErrReportNotFound
// 3. ShareReport adds the manager once and sets status shared
// 4. Monthly / yearly aggregates filter on Date (not CreatedAt) and are idempotent
// 5. EditReport only rewrites descriptions of tasks the report already has
//
// =============================================================================

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*report.Store, *fakeClock, *persist.MemoryRepository) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)}
	repo := persist.NewMemoryRepository()
	store := report.NewStore(repo, logging.Discard(), report.WithClock(clock.Now))
	return store, clock, repo
}

func tasks(n int, status domain.TaskStatus, date string) []domain.Task {
	descriptions := make([]string, n)
	for i := range descriptions {
		descriptions[i] = "task"
	}
	return report.NewTasks(descriptions, status, date)
}

func addReport(t *testing.T, store *report.Store, userID, date string, completed, pending, planned int) domain.DailyReport {
	t.Helper()
	return store.AddReport(context.Background(), report.NewReport{
		UserID:      userID,
		Date:        date,
		Completed:   tasks(completed, domain.TaskCompleted, date),
		Pending:     tasks(pending, domain.TaskPending, date),
		NextDayPlan: tasks(planned, domain.TaskPending, date),
	})
}

func TestAddReport_Defaults(t *testing.T) {
	store, clock, _ := newTestStore(t)

	r := addReport(t, store, "alice", "2024-03-15", 2, 1, 0)

	if r.ID == "" {
		t.Error("ID should be assigned")
	}
	if !r.CreatedAt.Equal(clock.now) || !r.UpdatedAt.Equal(clock.now) {
		t.Errorf("CreatedAt/UpdatedAt should equal now, got %v / %v", r.CreatedAt, r.UpdatedAt)
	}
	if r.Status != domain.ReportSubmitted {
		t.Errorf("Status: expected submitted, got %s", r.Status)
	}
	if r.SharedWith == nil || len(r.SharedWith) != 0 {
		t.Errorf("SharedWith should be empty, got %v", r.SharedWith)
	}
	if len(store.GetAllReports()) != 1 {
		t.Error("Report should be stored")
	}
}

func TestAddReport_AcceptsEmptyLists(t *testing.T) {
	store, _, _ := newTestStore(t)

	r := store.AddReport(context.Background(), report.NewReport{UserID: "alice", Date: "2024-03-15"})

	if r.Completed == nil || r.Pending == nil || r.NextDayPlan == nil {
		t.Error("Task lists should be empty, not nil")
	}
}

func TestAddReport_AllowsSeveralReportsPerDay(t *testing.T) {
	store, _, _ := newTestStore(t)

	addReport(t, store, "alice", "2024-03-15", 1, 0, 0)
	addReport(t, store, "alice", "2024-03-15", 1, 0, 0)

	if got := len(store.GetReportsByUserID("alice")); got != 2 {
		t.Errorf("Expected 2 reports for the same day, got %d", got)
	}
}

func TestMonthlyReport_Scenario(t *testing.T) {
	store, _, _ := newTestStore(t)

	addReport(t, store, "alice", "2024-03-15", 2, 1, 0)

	m := store.GenerateMonthlyReport(2, 2024)
	if m.TotalReports != 1 || m.CompletedTasks != 2 || m.PendingTasks != 1 || m.PlannedTasks != 0 {
		t.Errorf("Unexpected aggregate: %+v", m)
	}
	if len(m.Reports) != 1 {
		t.Errorf("Expected the filtered report in the aggregate, got %d", len(m.Reports))
	}
}

func TestMonthlyReport_FiltersOnDateNotCreatedAt(t *testing.T) {
	store, _, _ := newTestStore(t)

	// Created on March 15 but dated for February
	addReport(t, store, "alice", "2024-02-28", 3, 0, 0)

	if got := store.GenerateMonthlyReport(2, 2024).TotalReports; got != 0 {
		t.Errorf("March should be empty, got %d", got)
	}
	if got := store.GenerateMonthlyReport(1, 2024).TotalReports; got != 1 {
		t.Errorf("February should have 1 report, got %d", got)
	}
}

func TestMonthlyReport_Idempotent(t *testing.T) {
	store, _, _ := newTestStore(t)
	addReport(t, store, "alice", "2024-03-01", 1, 2, 3)
	addReport(t, store, "bob", "2024-03-20", 4, 0, 1)
	addReport(t, store, "bob", "2024-04-01", 1, 1, 1)

	first := store.GenerateMonthlyReport(2, 2024)
	second := store.GenerateMonthlyReport(2, 2024)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated calls differ:\n%+v\n%+v", first, second)
	}
	if first.TotalReports != 2 || first.CompletedTasks != 5 || first.PendingTasks != 2 || first.PlannedTasks != 4 {
		t.Errorf("Unexpected aggregate: %+v", first)
	}
}

func TestMonthlyReport_IgnoresInvalidDates(t *testing.T) {
	store, _, _ := newTestStore(t)
	addReport(t, store, "alice", "not-a-date", 1, 0, 0)
	addReport(t, store, "alice", "2024-13-01", 1, 0, 0)

	y := store.GenerateYearlyReport(2024)
	if y.TotalReports != 0 {
		t.Errorf("Invalid dates should never match, got %d", y.TotalReports)
	}
}

func TestMonthlyReport_OutOfRangeMonthIsEmpty(t *testing.T) {
	store, _, _ := newTestStore(t)
	addReport(t, store, "alice", "2024-03-15", 1, 0, 0)

	for _, month := range []int{-1, 12} {
		m := store.GenerateMonthlyReport(month, 2024)
		if m.TotalReports != 0 || m.Reports == nil {
			t.Errorf("Month %d: expected empty aggregate with empty list, got %+v", month, m)
		}
	}
}

func TestYearlyReport_TotalsMatchMonths(t *testing.T) {
	store, _, _ := newTestStore(t)
	addReport(t, store, "alice", "2024-01-05", 1, 1, 0)
	addReport(t, store, "alice", "2024-03-15", 2, 1, 0)
	addReport(t, store, "bob", "2024-03-16", 0, 2, 2)
	addReport(t, store, "bob", "2024-12-31", 5, 0, 1)
	addReport(t, store, "bob", "2023-12-31", 9, 9, 9)
	addReport(t, store, "bob", "2025-01-01", 9, 9, 9)

	y := store.GenerateYearlyReport(2024)

	if len(y.MonthlyStats) != 12 {
		t.Fatalf("Expected 12 monthly entries, got %d", len(y.MonthlyStats))
	}
	if y.TotalReports != 4 {
		t.Errorf("TotalReports: expected 4, got %d", y.TotalReports)
	}

	sumReports, sumCompleted, sumPending, sumPlanned := 0, 0, 0, 0
	for i, m := range y.MonthlyStats {
		if m.Month != i || m.Year != 2024 {
			t.Errorf("Entry %d labelled %d/%d", i, m.Month, m.Year)
		}
		sumReports += m.TotalReports
		sumCompleted += m.CompletedTasks
		sumPending += m.PendingTasks
		sumPlanned += m.PlannedTasks
	}
	if sumReports != y.TotalReports || sumCompleted != y.CompletedTasks || sumPending != y.PendingTasks || sumPlanned != y.PlannedTasks {
		t.Errorf("Monthly sums (%d,%d,%d,%d) differ from yearly totals %+v", sumReports, sumCompleted, sumPending, sumPlanned, y)
	}
	if y.MonthlyStats[2].TotalReports != 2 {
		t.Errorf("March should have 2 reports, got %d", y.MonthlyStats[2].TotalReports)
	}
}

func TestShareReport_Scenario(t *testing.T) {
	store, clock, _ := newTestStore(t)
	ctx := context.Background()
	r := addReport(t, store, "alice", "2024-03-15", 1, 0, 0)

	clock.Advance(time.Hour)
	if err := store.ShareReport(ctx, r.ID, "manager-1"); err != nil {
		t.Fatalf("ShareReport failed: %v", err)
	}
	// Sharing again must not double-list the manager
	if err := store.ShareReport(ctx, r.ID, "manager-1"); err != nil {
		t.Fatalf("Second ShareReport failed: %v", err)
	}

	shared := store.GetSharedReports("manager-1")
	if len(shared) != 1 || shared[0].ID != r.ID {
		t.Fatalf("Expected the report exactly once, got %+v", shared)
	}
	if shared[0].Status != domain.ReportShared {
		t.Errorf("Status: expected shared, got %s", shared[0].Status)
	}
	if len(shared[0].SharedWith) != 1 {
		t.Errorf("SharedWith should hold the manager once, got %v", shared[0].SharedWith)
	}
	if !shared[0].UpdatedAt.After(shared[0].CreatedAt) {
		t.Error("Sharing should bump UpdatedAt")
	}
}

func TestShareReport_UnknownID(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.ShareReport(context.Background(), "missing", "manager-1")
	if !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestUpdateReport_UnknownIDChangesNothing(t *testing.T) {
	store, _, _ := newTestStore(t)
	existing := addReport(t, store, "alice", "2024-03-15", 2, 1, 0)
	before := store.GetAllReports()

	err := store.UpdateReport(context.Background(), domain.DailyReport{ID: "missing", UserID: "mallory", Date: "2024-03-15"})
	if !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}

	after := store.GetAllReports()
	if len(after) != 1 {
		t.Fatalf("Collection size changed: %d", len(after))
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Existing report %s was altered", existing.ID)
	}
}

func TestUpdateReport_ReplacesAndStamps(t *testing.T) {
	store, clock, _ := newTestStore(t)
	r := addReport(t, store, "alice", "2024-03-15", 1, 0, 0)

	clock.Advance(30 * time.Minute)
	r.Completed[0].Description = "<p>shipped the release</p>"
	r.CreatedAt = time.Time{} // callers cannot rewrite history
	if err := store.UpdateReport(context.Background(), r); err != nil {
		t.Fatalf("UpdateReport failed: %v", err)
	}

	got, err := store.GetReportByID(r.ID)
	if err != nil {
		t.Fatalf("GetReportByID failed: %v", err)
	}
	if got.Completed[0].Description != "<p>shipped the release</p>" {
		t.Errorf("Description not updated: %q", got.Completed[0].Description)
	}
	if !got.UpdatedAt.Equal(clock.now) {
		t.Errorf("UpdatedAt should be now, got %v", got.UpdatedAt)
	}
	if got.UpdatedAt.Before(got.CreatedAt) || got.CreatedAt.IsZero() {
		t.Errorf("CreatedAt must be kept and precede UpdatedAt: %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestUpdateTaskDescription(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	r := addReport(t, store, "alice", "2024-03-15", 1, 1, 1)

	got, err := store.UpdateTaskDescription(ctx, r.ID, r.NextDayPlan[0].ID, "prepare demo")
	if err != nil {
		t.Fatalf("UpdateTaskDescription failed: %v", err)
	}
	if got.NextDayPlan[0].Description != "prepare demo" {
		t.Errorf("Expected updated plan description, got %q", got.NextDayPlan[0].Description)
	}
	if got.Completed[0].Description != "task" {
		t.Error("Other tasks must not change")
	}

	if _, err := store.UpdateTaskDescription(ctx, r.ID, "missing", "x"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
	if _, err := store.UpdateTaskDescription(ctx, "missing", r.Completed[0].ID, "x"); !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestQueries_ReturnCopies(t *testing.T) {
	store, _, _ := newTestStore(t)
	r := addReport(t, store, "alice", "2024-03-15", 1, 0, 0)

	got := store.GetReportsByUserID("alice")
	got[0].Completed[0].Description = "mutated"
	got[0].SharedWith = append(got[0].SharedWith, "intruder")

	fresh, _ := store.GetReportByID(r.ID)
	if fresh.Completed[0].Description != "task" || len(fresh.SharedWith) != 0 {
		t.Errorf("Store state leaked through a query result: %+v", fresh)
	}
}

func TestGetReportsByUserID_InsertionOrder(t *testing.T) {
	store, _, _ := newTestStore(t)
	first := addReport(t, store, "alice", "2024-03-20", 1, 0, 0)
	addReport(t, store, "bob", "2024-03-19", 1, 0, 0)
	second := addReport(t, store, "alice", "2024-03-01", 1, 0, 0)

	got := store.GetReportsByUserID("alice")
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("Expected insertion order [%s %s], got %+v", first.ID, second.ID, got)
	}
}

func TestLoad_RestoresReports(t *testing.T) {
	store, _, repo := newTestStore(t)
	r := addReport(t, store, "alice", "2024-03-15", 2, 1, 0)
	if err := store.ShareReport(context.Background(), r.ID, "manager-1"); err != nil {
		t.Fatalf("ShareReport failed: %v", err)
	}

	reloaded := report.NewStore(repo, logging.Discard())
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, err := reloaded.GetReportByID(r.ID)
	if err != nil {
		t.Fatalf("Report not restored: %v", err)
	}
	if got.Status != domain.ReportShared || len(got.Completed) != 2 {
		t.Errorf("Restored report differs: %+v", got)
	}
}

func TestLoad_RejectsNewerVersion(t *testing.T) {
	repo := persist.NewMemoryRepository()
	if err := persist.Save(context.Background(), repo, report.StorageKey, report.StorageVersion+1, map[string]any{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	store := report.NewStore(repo, logging.Discard())
	if err := store.Load(context.Background()); !errors.Is(err, domain.ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestEditReport_OnlyDescriptionsAndDate(t *testing.T) {
	store, clock, _ := newTestStore(t)
	r := addReport(t, store, "alice", "2024-03-15", 2, 1, 0)

	clock.Advance(time.Hour)
	got, err := store.EditReport(context.Background(), r.ID, "2024-03-14", map[string]string{
		r.Completed[1].ID: "<p>reviewed PR</p>",
		r.Pending[0].ID:   "deploy after review",
	})
	if err != nil {
		t.Fatalf("EditReport failed: %v", err)
	}

	if got.Date != "2024-03-14" {
		t.Errorf("Date: expected 2024-03-14, got %s", got.Date)
	}
	if len(got.Completed) != 2 || len(got.Pending) != 1 {
		t.Fatalf("Task lists must keep their size: %+v", got)
	}
	if got.Completed[0] != r.Completed[0] {
		t.Errorf("Untouched task changed: %+v", got.Completed[0])
	}
	if got.Completed[1].ID != r.Completed[1].ID || got.Completed[1].Status != domain.TaskCompleted ||
		got.Completed[1].Date != "2024-03-15" || got.Completed[1].Description != "<p>reviewed PR</p>" {
		t.Errorf("Only the description may change: %+v", got.Completed[1])
	}
	if got.Pending[0].Description != "deploy after review" {
		t.Errorf("Pending description not updated: %+v", got.Pending[0])
	}
	if !got.UpdatedAt.Equal(clock.now) {
		t.Errorf("UpdatedAt should be now, got %v", got.UpdatedAt)
	}
}

func TestEditReport_UnknownTaskChangesNothing(t *testing.T) {
	store, _, _ := newTestStore(t)
	r := addReport(t, store, "alice", "2024-03-15", 1, 0, 0)
	before, _ := store.GetReportByID(r.ID)

	_, err := store.EditReport(context.Background(), r.ID, "2024-03-10", map[string]string{
		r.Completed[0].ID: "changed",
		"forged":          "x",
	})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Expected ErrTaskNotFound, got %v", err)
	}

	after, _ := store.GetReportByID(r.ID)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Report changed after a rejected edit:\n%+v\n%+v", before, after)
	}

	if _, err := store.EditReport(context.Background(), "missing", "", nil); !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}
