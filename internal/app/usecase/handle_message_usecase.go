package usecase

import (
	"context"
	"strings"

	"github.com/fardannozami/dailyreport/internal/app/report"
)

type ReportSubmitter interface {
	Execute(ctx context.Context, phone, name, body string) (string, error)
}

type SummaryProvider interface {
	Execute(ctx context.Context, phone string, view report.View) (string, error)
}

type RecapProvider interface {
	Execute(ctx context.Context) (string, error)
}

const (
	CommandReport  = "#report"
	CommandMonthly = "#monthly"
	CommandYearly  = "#yearly"
	CommandRecap   = "#recap"
)

// HandleMessageUsecase routes chat commands. Messages that do not start with a known
// command get an empty reply, which the transport treats as "stay silent".
type HandleMessageUsecase struct {
	submit  ReportSubmitter
	summary SummaryProvider
	recap   RecapProvider
}

func NewHandleMessageUsecase(submit ReportSubmitter, summary SummaryProvider, recap RecapProvider) *HandleMessageUsecase {
	return &HandleMessageUsecase{submit: submit, summary: summary, recap: recap}
}

func (uc *HandleMessageUsecase) Execute(ctx context.Context, phone, name, msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return "", nil
	}

	command := strings.ToLower(fields[0])
	switch command {
	case CommandReport:
		body := strings.TrimSpace(msg[len(fields[0]):])
		return uc.submit.Execute(ctx, phone, name, body)
	case CommandMonthly:
		return uc.summary.Execute(ctx, phone, report.ViewMonthly)
	case CommandYearly:
		return uc.summary.Execute(ctx, phone, report.ViewYearly)
	case CommandRecap:
		return uc.recap.Execute(ctx)
	}
	return "", nil
}
