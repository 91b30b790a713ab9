package httpapi

import (
	"net/http"

	"github.com/fardannozami/dailyreport/internal/app/identity"
	"github.com/fardannozami/dailyreport/internal/domain"
)

type registerRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,max=72"`
	Role       string `json:"role" validate:"required,oneof=manager member"`
	Department string `json:"department"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=72"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	user, err := s.identity.Register(r.Context(), identity.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       domain.Role(req.Role),
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	user, err := s.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.identity.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// resetPassword never returns the temporary password; it goes out through the notifier.
func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	if err := s.identity.ResetPassword(r.Context(), req.Email); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "temporary password sent"})
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := s.decode(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	if err := s.identity.UpdatePassword(r.Context(), req.Email, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) team(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w); !ok {
		return
	}
	groups := s.identity.Team()
	if groups == nil {
		groups = []identity.DepartmentGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}
