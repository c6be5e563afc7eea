package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type credentialsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (c credentialsRequest) validate() error {
	return requireFields(
		field{"username", c.Username != nil},
		field{"password", c.Password != nil},
	)
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type loginResponse struct {
	Message       string  `json:"message"`
	UserID        int64   `json:"user_id"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.ComponentAuth, applog.OpRegister)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err, applog.ComponentAuth, applog.OpRegister)
		return
	}

	id, err := s.svc.Register(r.Context(), sanitizeInput(*req.Username), *req.Password)
	if err != nil {
		s.writeError(w, r, err, applog.ComponentAuth, applog.OpRegister)
		return
	}

	s.metrics.UsersRegisteredTotal.Inc()
	applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth).InfoContext(r.Context(), "User registered",
		applog.FieldUserID, id)
	writeJSON(w, http.StatusOK, registerResponse{Message: "User registered successfully", UserID: id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.ComponentAuth, applog.OpLogin)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err, applog.ComponentAuth, applog.OpLogin)
		return
	}

	u, err := s.svc.Login(r.Context(), sanitizeInput(*req.Username), *req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		s.writeError(w, r, err, applog.ComponentAuth, applog.OpLogin)
		return
	}

	s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, loginResponse{
		Message:       "Login successful",
		UserID:        u.ID,
		MonthlyBudget: u.MonthlyBudget,
	})
}
