package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
)

// LedgerWorker applies ledger events to the spreadsheet mirror and reports
// budget alerts.
type LedgerWorker struct {
	mirror sheets.ExpenseMirror
}

// NewLedgerWorker builds the worker. A nil mirror only logs events.
func NewLedgerWorker(mirror sheets.ExpenseMirror) *LedgerWorker {
	return &LedgerWorker{mirror: mirror}
}

// HandleEvent is an amqp.Handler. Transient mirror failures cause redelivery;
// unknown event types and permanent mirror failures are rejected.
func (w *LedgerWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	err := w.handle(ctx, ev)
	if errors.Is(err, sheets.ErrPermanent) {
		return amqp.Permanent(err)
	}
	return err
}

func (w *LedgerWorker) handle(ctx context.Context, ev *amqp.LedgerEvent) error {
	switch ev.Type {
	case amqp.EventExpenseCreated:
		return w.handleCreated(ctx, ev)
	case amqp.EventExpenseDeleted:
		return w.handleDeleted(ctx, ev)
	case amqp.EventBudgetExceeded:
		slog.WarnContext(ctx, "Budget exceeded",
			"user_id", ev.UserID,
			"total_spent", ev.TotalSpent,
			"monthly_budget", ev.MonthlyBudget)
		return nil
	default:
		return amqp.Permanent(fmt.Errorf("unsupported event type %q", ev.Type))
	}
}

func (w *LedgerWorker) handleCreated(ctx context.Context, ev *amqp.LedgerEvent) error {
	if w.mirror == nil {
		slog.InfoContext(ctx, "No mirror configured, skipping expense", "expense_id", ev.ExpenseID)
		return nil
	}
	if err := w.mirror.AppendExpense(ctx, ev.Expense.ToExpense()); err != nil {
		return fmt.Errorf("mirror expense %d: %w", ev.ExpenseID, err)
	}
	return nil
}

func (w *LedgerWorker) handleDeleted(ctx context.Context, ev *amqp.LedgerEvent) error {
	if w.mirror == nil {
		slog.InfoContext(ctx, "No mirror configured, skipping deletion", "expense_id", ev.ExpenseID)
		return nil
	}
	if err := w.mirror.DeleteExpense(ctx, ev.ExpenseID); err != nil {
		return fmt.Errorf("remove mirrored expense %d: %w", ev.ExpenseID, err)
	}
	return nil
}
