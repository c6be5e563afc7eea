package core

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the calendar format expense dates are stored in.
const DateLayout = "2006-01-02"

const (
	maxDescriptionLen = 200
	// bcrypt only looks at the first 72 bytes and refuses longer input.
	maxPasswordLen = 72
)

type (
	User struct {
		ID             int64
		Username       string
		HashedPassword string
		MonthlyBudget  float64
	}

	Expense struct {
		ID          int64
		UserID      int64
		Date        string // YYYY-MM-DD
		Category    string
		Amount      float64
		Description string
	}
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrEmptyUsername      = errors.New("empty username")
	ErrEmptyPassword      = errors.New("empty password")
	ErrPasswordTooLong    = errors.New("password too long (max 72 bytes)")
	ErrInvalidBudget      = errors.New("invalid monthly budget")
	ErrInvalidDate        = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidUserID      = errors.New("invalid user id")
)

// ValidationError marks an error as caused by bad client input.
type ValidationError struct {
	Err error
}

func (v *ValidationError) Error() string { return v.Err.Error() }
func (v *ValidationError) Unwrap() error { return v.Err }

func invalid(err error) error {
	return &ValidationError{Err: err}
}

// IsValidation reports whether err was produced by input validation.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidateCredentials checks the shape of a username/password pair.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return invalid(ErrEmptyUsername)
	}
	if password == "" {
		return invalid(ErrEmptyPassword)
	}
	if len(password) > maxPasswordLen {
		return invalid(ErrPasswordTooLong)
	}
	return nil
}

// ValidateBudget rejects negative and non-finite budgets. Zero is the default
// and stays allowed.
func ValidateBudget(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(ErrInvalidBudget)
	}
	return nil
}

func (e Expense) Validate() error {
	if e.UserID <= 0 {
		return invalid(ErrInvalidUserID)
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return invalid(ErrInvalidDate)
	}
	if strings.TrimSpace(e.Category) == "" {
		return invalid(ErrEmptyCategory)
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount <= 0 {
		return invalid(ErrInvalidAmount)
	}
	if utf8.RuneCountInString(e.Description) > maxDescriptionLen {
		return invalid(ErrDescriptionTooLong)
	}
	return nil
}
