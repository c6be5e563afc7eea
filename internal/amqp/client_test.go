package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestLedgerEventRoundTrip(t *testing.T) {
	e := core.Expense{ID: 7, UserID: 3, Date: "2025-02-01", Category: "Food", Amount: 12.5, Description: "pizza"}
	body, err := NewExpenseCreatedEvent(e).ToJSON()
	require.NoError(t, err)

	got, err := LedgerEventFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, EventExpenseCreated, got.Type)
	assert.Equal(t, int64(7), got.ExpenseID)
	require.NotNil(t, got.Expense)
	assert.Equal(t, e, got.Expense.ToExpense())
}

func TestLedgerEventFromJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"unknown type", `{"type":"expense.updated","user_id":1}`},
		{"created without payload", `{"type":"expense.created","user_id":1,"expense_id":2}`},
		{"deleted without id", `{"type":"expense.deleted","user_id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LedgerEventFromJSON([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	deleted, err := NewExpenseDeletedEvent(1, 9).ToJSON()
	require.NoError(t, err)

	t.Run("ack on success", func(t *testing.T) {
		var seen *LedgerEvent
		got := dispatch(ctx, deleted, func(_ context.Context, ev *LedgerEvent) error {
			seen = ev
			return nil
		})
		assert.Equal(t, outcomeAck, got)
		require.NotNil(t, seen)
		assert.Equal(t, int64(9), seen.ExpenseID)
	})

	t.Run("requeue on handler error", func(t *testing.T) {
		got := dispatch(ctx, deleted, func(context.Context, *LedgerEvent) error {
			return errors.New("sheets unavailable")
		})
		assert.Equal(t, outcomeRequeue, got)
	})

	t.Run("reject permanent handler error", func(t *testing.T) {
		calls := 0
		got := dispatch(ctx, deleted, func(context.Context, *LedgerEvent) error {
			calls++
			return fmt.Errorf("remove mirrored expense 9: %w", Permanent(errors.New("sheet \"Expenses\" not found")))
		})
		assert.Equal(t, outcomeReject, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("reject malformed body", func(t *testing.T) {
		called := false
		got := dispatch(ctx, []byte("{"), func(context.Context, *LedgerEvent) error {
			called = true
			return nil
		})
		assert.Equal(t, outcomeReject, got)
		assert.False(t, called)
	})
}

func TestPermanent(t *testing.T) {
	base := errors.New("bad request")
	err := Permanent(base)
	assert.True(t, IsPermanent(err))
	assert.True(t, IsPermanent(fmt.Errorf("wrapped: %w", err)))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "bad request", err.Error())

	assert.False(t, IsPermanent(base))
	assert.NoError(t, Permanent(nil))
}

func TestBudgetExceededEvent(t *testing.T) {
	status := core.TrackBudget(10, []core.Expense{{Amount: 12}})
	ev := NewBudgetExceededEvent(4, status)
	assert.Equal(t, EventBudgetExceeded, ev.Type)
	assert.Equal(t, 12.0, ev.TotalSpent)
	assert.Equal(t, 10.0, ev.MonthlyBudget)
}
