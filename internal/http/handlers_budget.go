package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type budgetRequest struct {
	MonthlyBudget *float64 `json:"monthly_budget"`
}

type budgetResponse struct {
	Message       string  `json:"message"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

type budgetStatusResponse struct {
	TotalSpent    float64 `json:"total_spent"`
	MonthlyBudget float64 `json:"monthly_budget"`
	Remaining     float64 `json:"remaining"`
	Status        string  `json:"status"`
}

func newBudgetStatusResponse(b core.BudgetStatus) budgetStatusResponse {
	return budgetStatusResponse{
		TotalSpent:    b.TotalSpent,
		MonthlyBudget: b.MonthlyBudget,
		Remaining:     b.Remaining,
		Status:        b.Status,
	}
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		s.writeError(w, r, err, applog.ComponentBudget, applog.OpUpdate)
		return
	}

	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.ComponentBudget, applog.OpUpdate)
		return
	}
	if err := requireFields(field{"monthly_budget", req.MonthlyBudget != nil}); err != nil {
		s.writeError(w, r, err, applog.ComponentBudget, applog.OpUpdate)
		return
	}

	budget, err := s.svc.SetBudget(r.Context(), userID, *req.MonthlyBudget)
	if err != nil {
		s.writeError(w, r, err, applog.ComponentBudget, applog.OpUpdate)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentBudget).InfoContext(r.Context(), "Budget updated",
		applog.FieldUserID, userID,
		"monthly_budget", budget)
	writeJSON(w, http.StatusOK, budgetResponse{Message: "Budget updated", MonthlyBudget: budget})
}

func (s *Server) handleTrackBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		s.writeError(w, r, err, applog.ComponentBudget, applog.OpRead)
		return
	}

	status, err := s.svc.TrackBudget(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err, applog.ComponentBudget, applog.OpRead)
		return
	}
	writeJSON(w, http.StatusOK, newBudgetStatusResponse(status))
}
