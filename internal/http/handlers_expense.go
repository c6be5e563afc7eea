package http

import (
	"bytes"
	"fmt"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type expenseRequest struct {
	UserID      *int64   `json:"user_id"`
	Date        *string  `json:"date"`
	Category    *string  `json:"category"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
}

func (e expenseRequest) toExpense() (core.Expense, error) {
	err := requireFields(
		field{"user_id", e.UserID != nil},
		field{"date", e.Date != nil},
		field{"category", e.Category != nil},
		field{"amount", e.Amount != nil},
		field{"description", e.Description != nil},
	)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		UserID:      *e.UserID,
		Date:        sanitizeInput(*e.Date),
		Category:    sanitizeInput(*e.Category),
		Amount:      *e.Amount,
		Description: sanitizeInput(*e.Description),
	}, nil
}

type addExpenseResponse struct {
	Message   string `json:"message"`
	ExpenseID int64  `json:"expense_id"`
}

type expenseResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func newExpenseResponses(expenses []core.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			Date:        e.Date,
			Category:    e.Category,
			Amount:      e.Amount,
			Description: e.Description,
		})
	}
	return out
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpCreate)
		return
	}
	exp, err := req.toExpense()
	if err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpCreate)
		return
	}

	id, err := s.svc.AddExpense(r.Context(), exp)
	if err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpCreate)
		return
	}

	s.metrics.ExpensesAddedTotal.Inc()
	s.metrics.ExpenseAmountTotal.Add(exp.Amount)
	s.logger.LogExpenseAdded(r.Context(), exp.UserID, id, exp.Category, exp.Amount, exp.Date)
	writeJSON(w, http.StatusOK, addExpenseResponse{Message: "Expense added", ExpenseID: id})
}

func (s *Server) handleViewExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpList)
		return
	}

	expenses, err := s.svc.ViewExpenses(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpList)
		return
	}
	writeJSON(w, http.StatusOK, newExpenseResponses(expenses))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := pathID(r, "expense_id")
	if err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpDelete)
		return
	}

	if err := s.svc.DeleteExpense(r.Context(), expenseID); err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpDelete)
		return
	}

	s.metrics.ExpensesDeletedTotal.Inc()
	applog.FromContext(r.Context()).WithComponent(applog.ComponentExpense).InfoContext(r.Context(), "Expense deleted",
		applog.FieldExpenseID, expenseID)
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Expense with ID %d deleted successfully", expenseID),
	})
}

// handleExportExpenses renders the CSV fully before answering so a failure
// halfway still yields a JSON error instead of a truncated file.
func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpExport)
		return
	}

	var buf bytes.Buffer
	if err := s.svc.ExportExpenses(r.Context(), userID, &buf); err != nil {
		s.writeError(w, r, err, applog.ComponentExpense, applog.OpExport)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="expenses_user_%d.csv"`, userID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
