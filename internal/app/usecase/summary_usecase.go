package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
)

type SummaryUsecase struct {
	users  UserDirectory
	reader ReportReader
	now    func() time.Time
}

func NewSummaryUsecase(users UserDirectory, reader ReportReader, now func() time.Time) *SummaryUsecase {
	return &SummaryUsecase{users: users, reader: reader, now: now}
}

// Execute summarizes the sender's own reports for the current month or year.
func (uc *SummaryUsecase) Execute(ctx context.Context, phone string, view report.View) (string, error) {
	user, err := uc.users.FindByPhone(phone)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "Your number is not registered yet. Add it to your profile first 🙏", nil
	}
	if err != nil {
		return "", err
	}

	now := uc.now()
	var period []domain.DailyReport
	for _, r := range uc.reader.GetReportsByUserID(user.ID) {
		day, ok := r.Day()
		if !ok || day.Year() != now.Year() {
			continue
		}
		if view == report.ViewMonthly && day.Month() != now.Month() {
			continue
		}
		period = append(period, r)
	}

	label := report.GroupKey(now, view)
	s := report.Summarize(period)
	if s.Reports == 0 {
		return fmt.Sprintf("%s: no reports yet for %s. Send #report to start 💪", user.Name, label), nil
	}

	return fmt.Sprintf("Summary %s for %s\nReports: %d\nCompleted: %d\nPending: %d\nPlanned: %d\nCompletion rate: %d%%",
		label, user.Name, s.Reports, s.Completed, s.Pending, s.Planned, s.CompletionRate), nil
}
