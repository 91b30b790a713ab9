// Package xlsx renders monthly and yearly aggregates as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
)

const (
	SheetSummary = "Summary"
	SheetReports = "Reports"
	SheetTasks   = "Tasks"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	reportHeaders = []string{"Date", "User", "Status", "Completed", "Pending", "Planned", "Created", "Updated"}
	taskHeaders   = []string{"Date", "User", "List", "Status", "Description"}
	yearHeaders   = []string{"Month", "Reports", "Completed", "Pending", "Planned", "Completion rate"}
)

// WriteMonthly writes a workbook with a summary sheet, one row per report and one row per task.
func WriteMonthly(w io.Writer, m domain.MonthlyReport) error {
	f, err := newWorkbook(SheetSummary, SheetReports, SheetTasks)
	if err != nil {
		return err
	}
	defer f.Close()

	period := time.Date(m.Year, time.Month(m.Month+1), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	summary := [][]any{
		{"Period", period},
		{"Total reports", m.TotalReports},
		{"Completed tasks", m.CompletedTasks},
		{"Pending tasks", m.PendingTasks},
		{"Planned tasks", m.PlannedTasks},
		{"Completion rate", fmt.Sprintf("%d%%", report.MonthlyRate(m))},
	}
	if err := writeRows(f, SheetSummary, 1, summary); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "A", "B", 20); err != nil {
		return err
	}

	reportRows := make([][]any, 0, len(m.Reports))
	var taskRows [][]any
	for _, r := range m.Reports {
		user := displayName(r)
		reportRows = append(reportRows, []any{
			r.Date, user, string(r.Status), len(r.Completed), len(r.Pending), len(r.NextDayPlan),
			r.CreatedAt.Format(time.RFC3339), r.UpdatedAt.Format(time.RFC3339),
		})
		for _, list := range []struct {
			name  string
			tasks []domain.Task
		}{{"Completed", r.Completed}, {"Pending", r.Pending}, {"Next day plan", r.NextDayPlan}} {
			for _, t := range list.tasks {
				taskRows = append(taskRows, []any{r.Date, user, list.name, string(t.Status), t.Description})
			}
		}
	}
	if err := writeTable(f, SheetReports, reportHeaders, reportRows); err != nil {
		return err
	}
	if err := writeTable(f, SheetTasks, taskHeaders, taskRows); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetTasks, "E", "E", 60); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteYearly writes one summary row per month followed by a total row.
func WriteYearly(w io.Writer, y domain.YearlyReport) error {
	f, err := newWorkbook(SheetSummary)
	if err != nil {
		return err
	}
	defer f.Close()

	rows := make([][]any, 0, len(y.MonthlyStats)+1)
	for _, m := range y.MonthlyStats {
		rows = append(rows, []any{
			time.Month(m.Month + 1).String(), m.TotalReports, m.CompletedTasks, m.PendingTasks, m.PlannedTasks,
			fmt.Sprintf("%d%%", report.MonthlyRate(m)),
		})
	}
	rows = append(rows, []any{
		fmt.Sprintf("Total %d", y.Year), y.TotalReports, y.CompletedTasks, y.PendingTasks, y.PlannedTasks,
		fmt.Sprintf("%d%%", report.YearlyRate(y)),
	})
	if err := writeTable(f, SheetSummary, yearHeaders, rows); err != nil {
		return err
	}

	return f.Write(w)
}

func newWorkbook(sheets ...string) (*excelize.File, error) {
	f := excelize.NewFile()
	for _, name := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := writeRows(f, sheet, 1, [][]any{header}); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return err
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return err
	}
	return writeRows(f, sheet, 2, rows)
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, startRow+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func displayName(r domain.DailyReport) string {
	if r.UserName != "" {
		return r.UserName
	}
	return r.UserID
}
