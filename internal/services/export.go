package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"fintrack/internal/core"
)

var exportHeader = []string{"date", "category", "amount", "description"}

// ExportExpenses writes the user's expenses to w as CSV with a fixed header.
func (s *FinanceService) ExportExpenses(ctx context.Context, userID int64, w io.Writer) error {
	expenses, err := s.ViewExpenses(ctx, userID)
	if err != nil {
		return err
	}
	return WriteExpensesCSV(w, expenses)
}

func WriteExpensesCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{e.Date, e.Category, core.FormatAmount(e.Amount), e.Description}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
