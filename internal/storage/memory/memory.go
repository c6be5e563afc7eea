// Package memory is the process-scoped backend: users and expenses live in
// mutex-guarded slices and vanish on restart.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type Store struct {
	mu            sync.Mutex
	users         []core.User
	expenses      []core.Expense
	nextUserID    int64
	nextExpenseID int64
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextUserID: 1, nextExpenseID: 1}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, username, hashedPassword string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return 0, core.ErrUsernameTaken
		}
	}
	id := s.nextUserID
	s.nextUserID++
	s.users = append(s.users, core.User{
		ID:             id,
		Username:       username,
		HashedPassword: hashedPassword,
	})
	return id, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.userIndex(id); i >= 0 {
		return s.users[i], nil
	}
	return core.User{}, core.ErrUserNotFound
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, core.ErrUserNotFound
}

func (s *Store) UpdateBudget(_ context.Context, id int64, budget float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return core.ErrUserNotFound
	}
	s.users[i].MonthlyBudget = budget
	return nil
}

// CreateExpense keeps the foreign-key rule the SQL backends enforce.
func (s *Store) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userIndex(e.UserID) < 0 {
		return 0, core.ErrUserNotFound
	}
	e.ID = s.nextExpenseID
	s.nextExpenseID++
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrExpenseNotFound
}

func (s *Store) ListExpenses(_ context.Context, userID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []core.Expense{}
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrExpenseNotFound
}

// userIndex must be called with s.mu held.
func (s *Store) userIndex(id int64) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
