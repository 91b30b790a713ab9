package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
	"github.com/fardannozami/dailyreport/internal/infra/xlsx"
)

type overviewResponse struct {
	report.OverviewCounts
	Summary report.Summary `json:"summary"`
}

type monthlyResponse struct {
	domain.MonthlyReport
	CompletionRate int `json:"completionRate"`
}

type yearlyResponse struct {
	domain.YearlyReport
	CompletionRate int `json:"completionRate"`
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w)
	if !ok {
		return
	}

	visible := report.Visible(user, s.reports)
	writeJSON(w, http.StatusOK, overviewResponse{
		OverviewCounts: report.Overview(visible, s.now()),
		Summary:        report.Summarize(visible),
	})
}

func (s *Server) activity(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w)
	if !ok {
		return
	}

	activities := report.Activities(report.Visible(user, s.reports))
	if activities == nil {
		activities = []report.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

// monthlyStats takes the calendar month (1-12) in the path.
func (s *Server) monthlyStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w); !ok {
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	m := s.reports.GenerateMonthlyReport(month, year)
	writeJSON(w, http.StatusOK, monthlyResponse{MonthlyReport: m, CompletionRate: report.MonthlyRate(m)})
}

func (s *Server) yearlyStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w); !ok {
		return
	}
	year, _ := strconv.Atoi(mux.Vars(r)["year"])

	y := s.reports.GenerateYearlyReport(year)
	writeJSON(w, http.StatusOK, yearlyResponse{YearlyReport: y, CompletionRate: report.YearlyRate(y)})
}

func (s *Server) exportMonthly(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w); !ok {
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteMonthly(&buf, s.reports.GenerateMonthlyReport(month, year)); err != nil {
		s.writeError(w, fmt.Errorf("export monthly report: %w", err))
		return
	}
	writeWorkbook(w, fmt.Sprintf("daily-reports-%04d-%02d.xlsx", year, month+1), buf.Bytes())
}

func (s *Server) exportYearly(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireManager(w); !ok {
		return
	}
	year, _ := strconv.Atoi(mux.Vars(r)["year"])

	var buf bytes.Buffer
	if err := xlsx.WriteYearly(&buf, s.reports.GenerateYearlyReport(year)); err != nil {
		s.writeError(w, fmt.Errorf("export yearly report: %w", err))
		return
	}
	writeWorkbook(w, fmt.Sprintf("daily-reports-%04d.xlsx", year), buf.Bytes())
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// yearMonth reads {year} and the 1-based {month} and returns the zero-based month.
func yearMonth(r *http.Request) (year, month int, err error) {
	vars := mux.Vars(r)
	year, _ = strconv.Atoi(vars["year"])
	month, _ = strconv.Atoi(vars["month"])
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	return year, month - 1, nil
}
