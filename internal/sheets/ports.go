package sheets

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrPermanent marks mirror failures that retrying cannot fix, such as a
// missing tab or a spreadsheet the service account cannot reach.
var ErrPermanent = errors.New("permanent sheets failure")

// Ports for outbound adapters.
type (
	// ExpenseMirror keeps an external copy of the ledger in step with the
	// store. Both calls must be safe to repeat for the same expense.
	ExpenseMirror interface {
		AppendExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, expenseID int64) error
	}
)
