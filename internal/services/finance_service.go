package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// EventPublisher receives ledger events after successful writes.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.LedgerEvent) error
	Close() error
}

// FinanceService orchestrates accounts, budgets and expenses over a Store and
// an optional event publisher.
type FinanceService struct {
	store     storage.Store
	publisher EventPublisher
}

// NewFinanceService wires the service. publisher may be nil.
func NewFinanceService(store storage.Store, publisher EventPublisher) *FinanceService {
	return &FinanceService{
		store:     store,
		publisher: publisher,
	}
}

// Register creates a user with a zero budget and returns its id.
func (s *FinanceService) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if err := core.ValidateCredentials(username, password); err != nil {
		return 0, err
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return 0, core.ErrUsernameTaken
	} else if !errors.Is(err, core.ErrUserNotFound) {
		return 0, fmt.Errorf("lookup username: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	// The store still enforces uniqueness for concurrent registrations.
	id, err := s.store.CreateUser(ctx, username, hashed)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", id, "username", username)
	return id, nil
}

// Login verifies the password and returns the stored user. Unknown users,
// wrong passwords and passwords no registration could have produced are
// indistinguishable.
func (s *FinanceService) Login(ctx context.Context, username, password string) (core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.User{}, &core.ValidationError{Err: core.ErrEmptyUsername}
	}
	if core.ValidateCredentials(username, password) != nil {
		return core.User{}, core.ErrInvalidCredentials
	}

	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return core.User{}, core.ErrInvalidCredentials
		}
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(u.HashedPassword, password) {
		slog.WarnContext(ctx, "Login rejected", "username", username)
		return core.User{}, core.ErrInvalidCredentials
	}
	return u, nil
}

// SetBudget overwrites the user's monthly budget and returns the stored value.
func (s *FinanceService) SetBudget(ctx context.Context, userID int64, budget float64) (float64, error) {
	if err := core.ValidateBudget(budget); err != nil {
		return 0, err
	}
	if err := s.store.UpdateBudget(ctx, userID, budget); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Budget updated", "user_id", userID, "monthly_budget", budget)
	return budget, nil
}

// TrackBudget reports total spending against the budget.
func (s *FinanceService) TrackBudget(ctx context.Context, userID int64) (core.BudgetStatus, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	return core.TrackBudget(u.MonthlyBudget, expenses), nil
}

// AddExpense validates and stores an expense for an existing user.
func (s *FinanceService) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	u, err := s.store.GetUserByID(ctx, e.UserID)
	if err != nil {
		return 0, err
	}

	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return 0, err
	}
	e.ID = id

	s.publish(ctx, amqp.NewExpenseCreatedEvent(e))
	s.checkBudget(ctx, u, e)

	return id, nil
}

// checkBudget publishes budget.exceeded when e is the expense that pushed the
// user over budget.
func (s *FinanceService) checkBudget(ctx context.Context, u core.User, e core.Expense) {
	if s.publisher == nil {
		return
	}
	expenses, err := s.store.ListExpenses(ctx, u.ID)
	if err != nil {
		slog.WarnContext(ctx, "Skipping budget check", "user_id", u.ID, "error", err)
		return
	}
	status := core.TrackBudget(u.MonthlyBudget, expenses)
	if !status.OverBudget() {
		return
	}
	if core.TotalSpent(expenses)-e.Amount > u.MonthlyBudget {
		return
	}
	s.publish(ctx, amqp.NewBudgetExceededEvent(u.ID, status))
}

// ViewExpenses lists the user's expenses ordered by id.
func (s *FinanceService) ViewExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, userID)
}

// DeleteExpense removes one expense by id.
func (s *FinanceService) DeleteExpense(ctx context.Context, id int64) error {
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewExpenseDeletedEvent(e.UserID, id))
	return nil
}

// Ping checks the store is reachable.
func (s *FinanceService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish never fails the caller: the write is already committed.
func (s *FinanceService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"type", event.Type,
			"expense_id", event.ExpenseID,
			"error", err)
	}
}

// Close closes both storage and publisher connections.
func (s *FinanceService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	return errors.Join(errs...)
}
