package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err, "status", status)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// statusFor maps a service error to its HTTP status and client-facing detail.
// Unknown errors map to 500 and a generic detail.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrUsernameTaken):
		return http.StatusBadRequest, "Username already taken"
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, core.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, core.ErrExpenseNotFound):
		return http.StatusNotFound, "Expense not found"
	case core.IsValidation(err):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeError answers with {"detail": ...}; only 5xx responses are logged as errors.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, component, operation string) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.LogError(r.Context(), "Request failed", err, component, operation,
			applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
	} else {
		applog.FromContext(r.Context()).WithComponent(component).DebugContext(r.Context(), "Request rejected",
			applog.FieldOperation, operation,
			applog.FieldStatusCode, status,
			applog.FieldError, err.Error())
	}
	writeDetail(w, status, detail)
}
