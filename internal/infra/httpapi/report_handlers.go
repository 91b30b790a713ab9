package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
)

type createReportRequest struct {
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Completed   []string `json:"completed"`
	Pending     []string `json:"pending"`
	NextDayPlan []string `json:"nextDayPlan"`
}

// updateReportRequest carries new descriptions keyed by task ID. Tasks cannot be
// added, removed or re-stamped through it.
type updateReportRequest struct {
	Date         string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Descriptions map[string]string `json:"descriptions" validate:"dive,keys,required,endkeys,required"`
}

type updateTaskRequest struct {
	Description string `json:"description" validate:"required"`
}

type shareReportRequest struct {
	ManagerID string `json:"managerId" validate:"required"`
}

type reportListResponse struct {
	View    report.View    `json:"view"`
	Groups  []report.Group `json:"groups"`
	Summary report.Summary `json:"summary"`
}

func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w)
	if !ok {
		return
	}

	var req createReportRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	created := s.reports.AddReport(r.Context(), report.NewReport{
		UserID:      user.ID,
		UserName:    user.Name,
		Date:        req.Date,
		Completed:   report.NewTasks(req.Completed, domain.TaskCompleted, req.Date),
		Pending:     report.NewTasks(req.Pending, domain.TaskPending, req.Date),
		NextDayPlan: report.NewTasks(req.NextDayPlan, domain.TaskPending, req.Date),
	})
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w)
	if !ok {
		return
	}

	view, err := report.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		s.badRequest(w, err)
		return
	}

	visible := report.Visible(user, s.reports)
	groups := report.GroupReports(visible, view)
	if groups == nil {
		groups = []report.Group{}
	}
	writeJSON(w, http.StatusOK, reportListResponse{
		View:    view,
		Groups:  groups,
		Summary: report.Summarize(visible),
	})
}

func (s *Server) sharedReports(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.reports.GetSharedReports(user.ID))
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w)
	if !ok {
		return
	}

	rep, err := s.reports.GetReportByID(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !canView(user, rep) {
		s.writeError(w, errForbidden)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// updateReport moves the report date and edits task descriptions. Only the author may
// edit a report; an unknown task ID is a 404.
func (s *Server) updateReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.ownReport(w, r)
	if !ok {
		return
	}

	var req updateReportRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	updated, err := s.reports.EditReport(r.Context(), rep.ID, req.Date, req.Descriptions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.ownReport(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	updated, err := s.reports.UpdateTaskDescription(r.Context(), rep.ID, mux.Vars(r)["taskId"], req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) shareReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.ownReport(w, r)
	if !ok {
		return
	}

	var req shareReportRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	manager, err := s.identity.FindByID(req.ManagerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !manager.IsManager() {
		s.badRequest(w, errors.New("reports can only be shared with a manager"))
		return
	}

	if err := s.reports.ShareReport(r.Context(), rep.ID, manager.ID); err != nil {
		s.writeError(w, err)
		return
	}

	shared, err := s.reports.GetReportByID(rep.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shared)
}

// ownReport loads the {id} report and checks the current user wrote it.
func (s *Server) ownReport(w http.ResponseWriter, r *http.Request) (domain.DailyReport, bool) {
	user, ok := s.requireUser(w)
	if !ok {
		return domain.DailyReport{}, false
	}

	rep, err := s.reports.GetReportByID(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return domain.DailyReport{}, false
	}
	if rep.UserID != user.ID {
		s.writeError(w, errForbidden)
		return domain.DailyReport{}, false
	}
	return rep, true
}

func canView(user domain.User, r domain.DailyReport) bool {
	return user.IsManager() || r.UserID == user.ID || r.IsSharedWith(user.ID)
}
