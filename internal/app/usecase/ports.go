package usecase

import (
	"context"

	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
)

// UserDirectory resolves chat senders to registered accounts.
type UserDirectory interface {
	FindByPhone(phone string) (domain.User, error)
	Users() []domain.User
}

type ReportWriter interface {
	AddReport(ctx context.Context, in report.NewReport) domain.DailyReport
}

type ReportReader interface {
	GetReportsByUserID(userID string) []domain.DailyReport
}
