package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fardannozami/dailyreport/internal/app/persist"
	"github.com/fardannozami/dailyreport/internal/domain"
)

const (
	StorageKey     = "daily-reports-storage"
	StorageVersion = 1
)

type NewReport struct {
	UserID      string
	UserName    string
	Date        string
	Completed   []domain.Task
	Pending     []domain.Task
	NextDayPlan []domain.Task
}

type state struct {
	Reports []domain.DailyReport `json:"reports"`
}

// Store owns the daily reports. Aggregates are derived from the full list on every call.
type Store struct {
	mu      sync.RWMutex
	reports []domain.DailyReport
	repo    domain.SnapshotRepository
	log     logrus.FieldLogger
	now     func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(repo domain.SnapshotRepository, logger logrus.FieldLogger, opts ...Option) *Store {
	s := &Store{
		repo: repo,
		log:  logger,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Load(ctx context.Context) error {
	var st state
	found, err := persist.Load(ctx, s.repo, StorageKey, StorageVersion, &st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !found {
		return nil
	}
	s.reports = st.Reports
	s.log.Infof("Event ID: REPORTS_LOADED, Description: restored %d reports", len(s.reports))
	return nil
}

// AddReport always succeeds; task content is not validated.
func (s *Store) AddReport(ctx context.Context, in NewReport) domain.DailyReport {
	now := s.now()
	r := domain.DailyReport{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		UserName:    in.UserName,
		Date:        in.Date,
		Completed:   nonNil(in.Completed),
		Pending:     nonNil(in.Pending),
		NextDayPlan: nonNil(in.NextDayPlan),
		CreatedAt:   now,
		UpdatedAt:   now,
		SharedWith:  []string{},
		Status:      domain.ReportSubmitted,
	}

	s.mu.Lock()
	s.reports = append(s.reports, r.Clone())
	s.save(ctx)
	s.mu.Unlock()

	s.log.Infof("Event ID: REPORT_ADDED, Description: report %s for user %s dated %s", r.ID, r.UserID, r.Date)
	return r
}

// UpdateReport replaces the stored report with the same ID. CreatedAt is kept from
// the stored copy so UpdatedAt never precedes it. An unknown ID returns
// domain.ErrReportNotFound and changes nothing.
func (s *Store) UpdateReport(ctx context.Context, updated domain.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(updated.ID)
	if i < 0 {
		return domain.ErrReportNotFound
	}

	r := updated.Clone()
	r.CreatedAt = s.reports[i].CreatedAt
	r.UpdatedAt = s.stamp(r.CreatedAt)
	s.reports[i] = r
	s.save(ctx)
	return nil
}

// UpdateTaskDescription edits the description of one task in place. It is the only
// change a task accepts after creation.
func (s *Store) UpdateTaskDescription(ctx context.Context, reportID, taskID, description string) (domain.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(reportID)
	if i < 0 {
		return domain.DailyReport{}, domain.ErrReportNotFound
	}

	r := &s.reports[i]
	found := false
	for _, list := range [][]domain.Task{r.Completed, r.Pending, r.NextDayPlan} {
		for j := range list {
			if list[j].ID == taskID {
				list[j].Description = description
				found = true
			}
		}
	}
	if !found {
		return domain.DailyReport{}, domain.ErrTaskNotFound
	}

	r.UpdatedAt = s.stamp(r.CreatedAt)
	s.save(ctx)
	return r.Clone(), nil
}

// EditReport moves the report to date (kept when empty) and rewrites task descriptions
// keyed by task ID. Every ID must belong to the report, otherwise domain.ErrTaskNotFound
// is returned and nothing changes. IDs, statuses and list membership stay as stored.
func (s *Store) EditReport(ctx context.Context, reportID, date string, descriptions map[string]string) (domain.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(reportID)
	if i < 0 {
		return domain.DailyReport{}, domain.ErrReportNotFound
	}

	r := s.reports[i].Clone()
	lists := [][]domain.Task{r.Completed, r.Pending, r.NextDayPlan}
	for taskID, description := range descriptions {
		found := false
		for _, list := range lists {
			for j := range list {
				if list[j].ID == taskID {
					list[j].Description = description
					found = true
				}
			}
		}
		if !found {
			return domain.DailyReport{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
		}
	}
	if date != "" {
		r.Date = date
	}

	r.UpdatedAt = s.stamp(r.CreatedAt)
	s.reports[i] = r
	s.save(ctx)
	return r.Clone(), nil
}

// ShareReport grants managerID read visibility and marks the report shared.
func (s *Store) ShareReport(ctx context.Context, reportID, managerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(reportID)
	if i < 0 {
		return domain.ErrReportNotFound
	}

	r := &s.reports[i]
	if !r.IsSharedWith(managerID) {
		r.SharedWith = append(r.SharedWith, managerID)
	}
	r.Status = domain.ReportShared
	r.UpdatedAt = s.stamp(r.CreatedAt)
	s.save(ctx)

	s.log.Infof("Event ID: REPORT_SHARED, Description: report %s shared with %s", reportID, managerID)
	return nil
}

func (s *Store) GetReportByID(id string) (domain.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexByID(id)
	if i < 0 {
		return domain.DailyReport{}, domain.ErrReportNotFound
	}
	return s.reports[i].Clone(), nil
}

func (s *Store) GetReportsByUserID(userID string) []domain.DailyReport {
	return s.filter(func(r domain.DailyReport) bool { return r.UserID == userID })
}

func (s *Store) GetSharedReports(userID string) []domain.DailyReport {
	return s.filter(func(r domain.DailyReport) bool { return r.IsSharedWith(userID) })
}

// GetAllReports returns every report. Restricting it to managers is the caller's job.
func (s *Store) GetAllReports() []domain.DailyReport {
	return s.filter(func(domain.DailyReport) bool { return true })
}

// GenerateMonthlyReport aggregates the reports whose Date falls in month (0 = January) of year.
func (s *Store) GenerateMonthlyReport(month, year int) domain.MonthlyReport {
	reports := s.filter(func(r domain.DailyReport) bool {
		day, ok := r.Day()
		return ok && int(day.Month())-1 == month && day.Year() == year
	})

	m := domain.MonthlyReport{
		Month:        month,
		Year:         year,
		TotalReports: len(reports),
		Reports:      reports,
	}
	m.CompletedTasks, m.PendingTasks, m.PlannedTasks = countTasks(reports)
	return m
}

func (s *Store) GenerateYearlyReport(year int) domain.YearlyReport {
	reports := s.filter(func(r domain.DailyReport) bool {
		day, ok := r.Day()
		return ok && day.Year() == year
	})

	y := domain.YearlyReport{
		Year:         year,
		MonthlyStats: make([]domain.MonthlyReport, 12),
		TotalReports: len(reports),
	}
	for month := 0; month < 12; month++ {
		y.MonthlyStats[month] = s.GenerateMonthlyReport(month, year)
	}
	y.CompletedTasks, y.PendingTasks, y.PlannedTasks = countTasks(reports)
	return y
}

func (s *Store) filter(keep func(domain.DailyReport) bool) []domain.DailyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.DailyReport{}
	for _, r := range s.reports {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (s *Store) indexByID(id string) int {
	for i, r := range s.reports {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// stamp returns now, clamped so it never precedes createdAt.
func (s *Store) stamp(createdAt time.Time) time.Time {
	now := s.now()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

// save must be called with s.mu held.
func (s *Store) save(ctx context.Context) {
	if err := persist.Save(ctx, s.repo, StorageKey, StorageVersion, state{Reports: s.reports}); err != nil {
		s.log.Errorf("Event ID: REPORTS_SAVE_FAILED, Description: %v", err)
	}
}

func countTasks(reports []domain.DailyReport) (completed, pending, planned int) {
	for _, r := range reports {
		completed += len(r.Completed)
		pending += len(r.Pending)
		planned += len(r.NextDayPlan)
	}
	return completed, pending, planned
}

func nonNil(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}
