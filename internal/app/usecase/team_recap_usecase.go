package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
)

type recapEntry struct {
	name       string
	streak     int
	monthCount int
	rate       int
	lastReport string
}

type TeamRecapUsecase struct {
	users  UserDirectory
	reader ReportReader
	now    func() time.Time
}

func NewTeamRecapUsecase(users UserDirectory, reader ReportReader, now func() time.Time) *TeamRecapUsecase {
	return &TeamRecapUsecase{users: users, reader: reader, now: now}
}

// Execute builds the team standings. Members who reported today or yesterday keep
// their streak; every other user is listed below them. Managers are left out until
// they file a report.
func (uc *TeamRecapUsecase) Execute(ctx context.Context) (string, error) {
	now := uc.now()

	var keepStreak, loseStreak []recapEntry
	for _, u := range uc.users.Users() {
		reports := uc.reader.GetReportsByUserID(u.ID)
		if u.IsManager() && len(reports) == 0 {
			continue
		}

		var month []domain.DailyReport
		for _, r := range reports {
			if day, ok := r.Day(); ok && day.Year() == now.Year() && day.Month() == now.Month() {
				month = append(month, r)
			}
		}
		summary := report.Summarize(month)

		e := recapEntry{
			name:       u.Name,
			streak:     report.Streak(reports, now),
			monthCount: summary.Reports,
			rate:       summary.CompletionRate,
		}
		if last, ok := report.LastReported(reports); ok {
			e.lastReport = last.Format("02-01-2006")
		}
		if e.streak > 0 {
			keepStreak = append(keepStreak, e)
		} else {
			loseStreak = append(loseStreak, e)
		}
	}

	byActivity := func(entries []recapEntry) func(i, j int) bool {
		return func(i, j int) bool {
			if entries[i].monthCount != entries[j].monthCount {
				return entries[i].monthCount > entries[j].monthCount
			}
			return entries[i].streak > entries[j].streak
		}
	}
	sort.SliceStable(keepStreak, byActivity(keepStreak))
	sort.SliceStable(loseStreak, byActivity(loseStreak))

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Daily Report Recap (%s)\n\n", now.Format("02-01-2006")))
	sb.WriteString(fmt.Sprintf("%d people keep the streak 🔥\n", len(keepStreak)))
	sb.WriteString(fmt.Sprintf("%d lose the streak 💔\n", len(loseStreak)))
	sb.WriteString(fmt.Sprintf("\nStandings %s:\n", now.Format("January 2006")))

	rank := 1
	for _, e := range keepStreak {
		sb.WriteString(fmt.Sprintf("%d. %s - %d days streak 🔥 (%d reports, %d%% done)\n", rank, e.name, e.streak, e.monthCount, e.rate))
		rank++
	}
	for _, e := range loseStreak {
		if e.lastReport == "" {
			sb.WriteString(fmt.Sprintf("%d. %s - no reports yet 💔\n", rank, e.name))
		} else {
			sb.WriteString(fmt.Sprintf("%d. %s - %d reports 💔 (last %s)\n", rank, e.name, e.monthCount, e.lastReport))
		}
		rank++
	}

	sb.WriteString("\nNot on the board yet? Send #report and you're in 💪")
	return sb.String(), nil
}
