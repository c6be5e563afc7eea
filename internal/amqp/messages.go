package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// EventType names what happened in the ledger. It doubles as the AMQP
// message type header.
type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseDeleted EventType = "expense.deleted"
	EventBudgetExceeded EventType = "budget.exceeded"
)

// ExpensePayload is the wire form of a created expense.
type ExpensePayload struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// LedgerEvent is published after every successful write. Only the fields
// relevant to Type are set.
type LedgerEvent struct {
	Type          EventType       `json:"type"`
	UserID        int64           `json:"user_id"`
	ExpenseID     int64           `json:"expense_id,omitempty"`
	Expense       *ExpensePayload `json:"expense,omitempty"`
	TotalSpent    float64         `json:"total_spent,omitempty"`
	MonthlyBudget float64         `json:"monthly_budget,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

func NewExpenseCreatedEvent(e core.Expense) *LedgerEvent {
	return &LedgerEvent{
		Type:      EventExpenseCreated,
		UserID:    e.UserID,
		ExpenseID: e.ID,
		Expense: &ExpensePayload{
			ID:          e.ID,
			UserID:      e.UserID,
			Date:        e.Date,
			Category:    e.Category,
			Amount:      e.Amount,
			Description: e.Description,
		},
		Timestamp: time.Now().UTC(),
	}
}

func NewExpenseDeletedEvent(userID, expenseID int64) *LedgerEvent {
	return &LedgerEvent{
		Type:      EventExpenseDeleted,
		UserID:    userID,
		ExpenseID: expenseID,
		Timestamp: time.Now().UTC(),
	}
}

func NewBudgetExceededEvent(userID int64, status core.BudgetStatus) *LedgerEvent {
	return &LedgerEvent{
		Type:          EventBudgetExceeded,
		UserID:        userID,
		TotalSpent:    status.TotalSpent,
		MonthlyBudget: status.MonthlyBudget,
		Timestamp:     time.Now().UTC(),
	}
}

// ToExpense converts the payload back to the domain type.
func (p *ExpensePayload) ToExpense() core.Expense {
	return core.Expense{
		ID:          p.ID,
		UserID:      p.UserID,
		Date:        p.Date,
		Category:    p.Category,
		Amount:      p.Amount,
		Description: p.Description,
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventExpenseCreated:
		if msg.Expense == nil {
			return nil, fmt.Errorf("%s event without expense payload", msg.Type)
		}
	case EventExpenseDeleted:
		if msg.ExpenseID <= 0 {
			return nil, fmt.Errorf("%s event without expense id", msg.Type)
		}
	case EventBudgetExceeded:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return &msg, nil
}
