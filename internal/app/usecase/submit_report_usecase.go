package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
)

const reportUsage = "Format:\n#report\ndone: what you finished\npending: what is still open\nplan: what comes tomorrow"

type SubmitReportUsecase struct {
	users  UserDirectory
	writer ReportWriter
	reader ReportReader
	now    func() time.Time
}

func NewSubmitReportUsecase(users UserDirectory, writer ReportWriter, reader ReportReader, now func() time.Time) *SubmitReportUsecase {
	return &SubmitReportUsecase{users: users, writer: writer, reader: reader, now: now}
}

// Execute files the message body as today's report for the sender identified by phone.
func (uc *SubmitReportUsecase) Execute(ctx context.Context, phone, name, body string) (string, error) {
	user, err := uc.users.FindByPhone(phone)
	if errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Sprintf("%s, your number is not registered yet. Add it to your profile first 🙏", name), nil
	}
	if err != nil {
		return "", err
	}

	parsed := ParseReportBody(body)
	if parsed.Empty() {
		return reportUsage, nil
	}

	now := uc.now()
	date := now.Format(domain.DateLayout)
	uc.writer.AddReport(ctx, report.NewReport{
		UserID:      user.ID,
		UserName:    user.Name,
		Date:        date,
		Completed:   report.NewTasks(parsed.Completed, domain.TaskCompleted, date),
		Pending:     report.NewTasks(parsed.Pending, domain.TaskPending, date),
		NextDayPlan: report.NewTasks(parsed.Plan, domain.TaskPending, date),
	})

	streak := report.Streak(uc.reader.GetReportsByUserID(user.ID), now)
	return fmt.Sprintf("Report received, %s ✅ %d done, %d pending, %d planned. %d days streak 🔥",
		user.Name, len(parsed.Completed), len(parsed.Pending), len(parsed.Plan), streak), nil
}
