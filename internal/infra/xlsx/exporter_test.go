package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fardannozami/dailyreport/internal/domain"
	"github.com/fardannozami/dailyreport/internal/infra/xlsx"
)

func sampleMonth() domain.MonthlyReport {
	at := time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)
	return domain.MonthlyReport{
		Month:          2,
		Year:           2024,
		TotalReports:   1,
		CompletedTasks: 2,
		PendingTasks:   1,
		Reports: []domain.DailyReport{{
			ID:       "r1",
			UserID:   "u-alice",
			UserName: "Alice",
			Date:     "2024-03-15",
			Completed: []domain.Task{
				{ID: "t1", Description: "fix login", Status: domain.TaskCompleted, Date: "2024-03-15"},
				{ID: "t2", Description: "review PR", Status: domain.TaskCompleted, Date: "2024-03-15"},
			},
			Pending:     []domain.Task{{ID: "t3", Description: "deploy", Status: domain.TaskPending, Date: "2024-03-15"}},
			NextDayPlan: []domain.Task{},
			CreatedAt:   at,
			UpdatedAt:   at,
			Status:      domain.ReportSubmitted,
		}},
	}
}

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteMonthly(t *testing.T) {
	var buf bytes.Buffer
	if err := xlsx.WriteMonthly(&buf, sampleMonth()); err != nil {
		t.Fatalf("WriteMonthly failed: %v", err)
	}
	f := open(t, &buf)

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != xlsx.SheetSummary {
		t.Errorf("Unexpected sheets %v", sheets)
	}

	period, _ := f.GetCellValue(xlsx.SheetSummary, "B1")
	rate, _ := f.GetCellValue(xlsx.SheetSummary, "B6")
	if period != "March 2024" || rate != "67%" {
		t.Errorf("Summary: expected March 2024 / 67%%, got %s / %s", period, rate)
	}

	rows, err := f.GetRows(xlsx.SheetReports)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Alice" || rows[1][3] != "2" {
		t.Errorf("Unexpected report rows %v", rows)
	}

	tasks, _ := f.GetRows(xlsx.SheetTasks)
	if len(tasks) != 4 {
		t.Fatalf("Expected header + 3 task rows, got %d", len(tasks))
	}
	if tasks[3][2] != "Pending" || tasks[3][4] != "deploy" {
		t.Errorf("Unexpected task row %v", tasks[3])
	}
}

func TestWriteYearly(t *testing.T) {
	y := domain.YearlyReport{Year: 2024, MonthlyStats: make([]domain.MonthlyReport, 12)}
	for i := range y.MonthlyStats {
		y.MonthlyStats[i] = domain.MonthlyReport{Month: i, Year: 2024}
	}
	y.MonthlyStats[2] = sampleMonth()
	y.TotalReports, y.CompletedTasks, y.PendingTasks = 1, 2, 1

	var buf bytes.Buffer
	if err := xlsx.WriteYearly(&buf, y); err != nil {
		t.Fatalf("WriteYearly failed: %v", err)
	}
	f := open(t, &buf)

	rows, err := f.GetRows(xlsx.SheetSummary)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 14 {
		t.Fatalf("Expected header + 12 months + total, got %d rows", len(rows))
	}
	if rows[3][0] != "March" || rows[3][1] != "1" || rows[3][5] != "67%" {
		t.Errorf("Unexpected March row %v", rows[3])
	}
	if rows[1][5] != "0%" {
		t.Errorf("Empty month should show 0%%, got %v", rows[1])
	}
	if rows[13][0] != "Total 2024" || rows[13][2] != "2" {
		t.Errorf("Unexpected total row %v", rows[13])
	}
}
