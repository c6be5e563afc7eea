package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/observability"
	"fintrack/internal/sheets"
)

type fakeMirror struct {
	appended []core.Expense
	deleted  []int64
	err      error
}

func (f *fakeMirror) AppendExpense(_ context.Context, e core.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeMirror) DeleteExpense(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()
	mirror := &fakeMirror{}
	w := NewLedgerWorker(mirror)

	e := core.Expense{ID: 4, UserID: 1, Date: "2025-05-05", Category: "Travel", Amount: 99.9}
	require.NoError(t, w.HandleEvent(ctx, amqp.NewExpenseCreatedEvent(e)))
	require.NoError(t, w.HandleEvent(ctx, amqp.NewExpenseDeletedEvent(1, 4)))
	require.NoError(t, w.HandleEvent(ctx, amqp.NewBudgetExceededEvent(1, core.TrackBudget(50, []core.Expense{e}))))

	assert.Equal(t, []core.Expense{e}, mirror.appended)
	assert.Equal(t, []int64{4}, mirror.deleted)
}

func TestHandleEventMirrorFailure(t *testing.T) {
	ctx := context.Background()
	w := NewLedgerWorker(&fakeMirror{err: errors.New("quota exceeded")})

	err := w.HandleEvent(ctx, amqp.NewExpenseCreatedEvent(core.Expense{ID: 1}))
	assert.ErrorContains(t, err, "quota exceeded")

	err = w.HandleEvent(ctx, amqp.NewExpenseDeletedEvent(1, 1))
	assert.ErrorContains(t, err, "quota exceeded")
	assert.False(t, amqp.IsPermanent(err), "transient failures are redelivered")
}

func TestHandleEventPermanentMirrorFailure(t *testing.T) {
	ctx := context.Background()
	missingTab := fmt.Errorf("%w: sheet %q not found in spreadsheet", sheets.ErrPermanent, "Expenses")
	w := NewLedgerWorker(&fakeMirror{err: missingTab})

	for _, ev := range []*amqp.LedgerEvent{
		amqp.NewExpenseCreatedEvent(core.Expense{ID: 1}),
		amqp.NewExpenseDeletedEvent(1, 1),
	} {
		err := w.HandleEvent(ctx, ev)
		require.Error(t, err)
		assert.True(t, amqp.IsPermanent(err), "%s: %v", ev.Type, err)
		assert.ErrorIs(t, err, sheets.ErrPermanent)
	}
}

func TestHandleEventWithoutMirror(t *testing.T) {
	w := NewLedgerWorker(nil)
	assert.NoError(t, w.HandleEvent(context.Background(), amqp.NewExpenseCreatedEvent(core.Expense{ID: 1})))
	assert.NoError(t, w.HandleEvent(context.Background(), amqp.NewExpenseDeletedEvent(1, 1)))
}

func TestHandleEventUnknownType(t *testing.T) {
	w := NewLedgerWorker(nil)
	err := w.HandleEvent(context.Background(), &amqp.LedgerEvent{Type: "expense.updated"})
	require.Error(t, err)
	assert.True(t, amqp.IsPermanent(err))
}

func TestInstrumentCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewMetrics()
	mirror := &fakeMirror{}
	handler := Instrument(NewLedgerWorker(mirror).HandleEvent, metrics.LedgerEventsConsumed)

	created := amqp.NewExpenseCreatedEvent(core.Expense{ID: 3, UserID: 1, Date: "2025-03-01", Category: "Food", Amount: 4})
	require.NoError(t, handler(ctx, created))

	mirror.err = errors.New("quota exceeded")
	require.Error(t, handler(ctx, amqp.NewExpenseDeletedEvent(1, 3)))

	consumed := metrics.LedgerEventsConsumed
	assert.Equal(t, float64(1), testutil.ToFloat64(consumed.WithLabelValues(string(amqp.EventExpenseCreated), "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(consumed.WithLabelValues(string(amqp.EventExpenseDeleted), "failed")))
}
