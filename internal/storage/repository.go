package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// SQLRepository is the Store shared by the sqlite and postgres backends.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ Store = (*SQLRepository)(nil)

func newSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Dialect returns the SQL flavour the repository speaks.
func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLRepository) CreateUser(ctx context.Context, username, hashedPassword string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(queryCreateUser), username, hashedPassword).Scan(&id)
	if err != nil {
		if cerr := r.dialect.constraintError(err); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved",
		"id", id,
		"username", username,
		"backend", r.dialect.Name)

	return id, nil
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	return r.getUser(ctx, queryGetUserByID, id)
}

func (r *SQLRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	return r.getUser(ctx, queryGetUserByUsername, username)
}

func (r *SQLRepository) getUser(ctx context.Context, query string, arg any) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(query), arg).Scan(
		&u.ID,
		&u.Username,
		&u.HashedPassword,
		&u.MonthlyBudget,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUserNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *SQLRepository) UpdateBudget(ctx context.Context, id int64, budget float64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(queryUpdateBudget), budget, id)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

func (r *SQLRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(queryCreateExpense),
		e.UserID,
		e.Date,
		e.Category,
		e.Amount,
		e.Description,
	).Scan(&id)
	if err != nil {
		if cerr := r.dialect.constraintError(err); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", e.UserID,
		"category", e.Category,
		"amount", e.Amount,
		"date", e.Date,
		"backend", r.dialect.Name)

	return id, nil
}

func (r *SQLRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(queryGetExpense), id).Scan(
		&e.ID, &e.UserID, &e.Date, &e.Category, &e.Amount, &e.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, core.ErrExpenseNotFound
		}
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(queryListExpenses), userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses for user %d: %w", userID, err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Category, &e.Amount, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (r *SQLRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(queryDeleteExpense), id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrExpenseNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "backend", r.dialect.Name)
	return nil
}
