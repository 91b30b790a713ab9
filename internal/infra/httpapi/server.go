// Package httpapi serves the JSON API used by the web, desktop and mobile shells.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/fardannozami/dailyreport/internal/app/identity"
	"github.com/fardannozami/dailyreport/internal/app/report"
	"github.com/fardannozami/dailyreport/internal/domain"
)

type IdentityService interface {
	Register(ctx context.Context, in identity.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	Logout(ctx context.Context)
	CurrentUser() (domain.User, bool)
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, currentPassword, newPassword string) error
	FindByID(id string) (domain.User, error)
	Team() []identity.DepartmentGroup
}

type ReportService interface {
	report.Reader
	AddReport(ctx context.Context, in report.NewReport) domain.DailyReport
	EditReport(ctx context.Context, reportID, date string, descriptions map[string]string) (domain.DailyReport, error)
	UpdateTaskDescription(ctx context.Context, reportID, taskID, description string) (domain.DailyReport, error)
	ShareReport(ctx context.Context, reportID, managerID string) error
	GetReportByID(id string) (domain.DailyReport, error)
	GenerateMonthlyReport(month, year int) domain.MonthlyReport
	GenerateYearlyReport(year int) domain.YearlyReport
}

var (
	errNoSession = errors.New("not logged in")
	errForbidden = errors.New("not allowed")
)

type Server struct {
	identity   IdentityService
	reports    ReportService
	validate   *validator.Validate
	log        logrus.FieldLogger
	now        func() time.Time
	corsOrigin string
}

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

func NewServer(users IdentityService, reports ReportService, logger logrus.FieldLogger, opts ...Option) *Server {
	s := &Server{
		identity:   users,
		reports:    reports,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        logger,
		now:        time.Now,
		corsOrigin: "http://localhost:5173",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)
	api.HandleFunc("/auth/reset-password", s.resetPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/update-password", s.updatePassword).Methods(http.MethodPost)
	api.HandleFunc("/team", s.team).Methods(http.MethodGet)

	api.HandleFunc("/reports", s.createReport).Methods(http.MethodPost)
	api.HandleFunc("/reports", s.listReports).Methods(http.MethodGet)
	api.HandleFunc("/reports/shared", s.sharedReports).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", s.getReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", s.updateReport).Methods(http.MethodPut)
	api.HandleFunc("/reports/{id}/tasks/{taskId}", s.updateTask).Methods(http.MethodPatch)
	api.HandleFunc("/reports/{id}/share", s.shareReport).Methods(http.MethodPost)

	api.HandleFunc("/stats/overview", s.overview).Methods(http.MethodGet)
	api.HandleFunc("/stats/monthly/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.monthlyStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/yearly/{year:[0-9]{4}}", s.yearlyStats).Methods(http.MethodGet)
	api.HandleFunc("/activity", s.activity).Methods(http.MethodGet)

	api.HandleFunc("/export/monthly/{year:[0-9]{4}}/{month:[0-9]{1,2}}.xlsx", s.exportMonthly).Methods(http.MethodGet)
	api.HandleFunc("/export/yearly/{year:[0-9]{4}}.xlsx", s.exportYearly).Methods(http.MethodGet)

	return s.enableCORS(r)
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.log.WithField("duration", time.Since(start).String())
		if rec.status >= http.StatusInternalServerError {
			entry.Errorf("Event ID: HTTP_REQUEST, Description: %s %s -> %d", r.Method, r.URL.Path, rec.status)
			return
		}
		entry.Debugf("Event ID: HTTP_REQUEST, Description: %s %s -> %d", r.Method, r.URL.Path, rec.status)
	})
}

// decode reads a JSON body into v and runs its validate tags.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return s.validate.Struct(v)
}

// requireUser writes 401 and returns false when nobody is logged in.
func (s *Server) requireUser(w http.ResponseWriter) (domain.User, bool) {
	user, ok := s.identity.CurrentUser()
	if !ok {
		s.writeError(w, errNoSession)
	}
	return user, ok
}

func (s *Server) requireManager(w http.ResponseWriter) (domain.User, bool) {
	user, ok := s.requireUser(w)
	if !ok {
		return user, false
	}
	if !user.IsManager() {
		s.writeError(w, errForbidden)
		return user, false
	}
	return user, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrReportNotFound),
		errors.Is(err, domain.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPasswordTooLong):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, errNoSession):
		status = http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		status = http.StatusForbidden
	default:
		s.log.Errorf("Event ID: HTTP_INTERNAL_ERROR, Description: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
