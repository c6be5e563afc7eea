package storage

import (
	"context"

	"fintrack/internal/core"
)

// Ports implemented by every backend (memory, sqlite, postgres).
type (
	UserStore interface {
		// CreateUser inserts a user with a zero budget. Returns
		// core.ErrUsernameTaken when the username exists.
		CreateUser(ctx context.Context, username, hashedPassword string) (int64, error)
		GetUserByID(ctx context.Context, id int64) (core.User, error)
		GetUserByUsername(ctx context.Context, username string) (core.User, error)
		// UpdateBudget overwrites the monthly budget. Returns core.ErrUserNotFound
		// for unknown ids.
		UpdateBudget(ctx context.Context, id int64, budget float64) error
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (int64, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		// ListExpenses returns the user's expenses ordered by id.
		ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
		// DeleteExpense returns core.ErrExpenseNotFound for unknown ids.
		DeleteExpense(ctx context.Context, id int64) error
	}

	Store interface {
		UserStore
		ExpenseStore
		Ping(ctx context.Context) error
		Close() error
	}
)
