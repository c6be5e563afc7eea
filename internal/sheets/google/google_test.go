package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// fakeSheets serves the handful of Sheets endpoints the mirror calls.
type fakeSheets struct {
	mu      sync.Mutex
	rows    [][]any
	deletes []*gsheet.DeleteDimensionRequest
	gets    int
	status  int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s"}}`, f.status, http.StatusText(f.status))
		return
	}

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, vr.Values...)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, rq := range req.Requests {
			if d := rq.DeleteDimension; d != nil {
				f.deletes = append(f.deletes, d)
				f.rows = append(f.rows[:d.Range.StartIndex], f.rows[d.Range.EndIndex:]...)
			}
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
		ids := make([][]any, len(f.rows))
		for i, row := range f.rows {
			ids[i] = row[:1]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"values": ids})
	case r.Method == http.MethodGet:
		f.gets++
		_, _ = w.Write([]byte(`{"sheets":[{"properties":{"sheetId":0,"title":"Other"}},{"properties":{"sheetId":42,"title":"Expenses"}}]}`))
	default:
		http.NotFound(w, r)
	}
}

func newFakeClient(t *testing.T) (*Client, *fakeSheets) {
	t.Helper()
	return newFakeClientFor(t, Options{SpreadsheetID: "sheet-1"})
}

func newFakeClientFor(t *testing.T, opts Options) (*Client, *fakeSheets) {
	t.Helper()
	fake := &fakeSheets{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return newClient(svc, opts), fake
}

func TestAppendAndDeleteExpense(t *testing.T) {
	ctx := context.Background()
	c, fake := newFakeClient(t)

	first := core.Expense{ID: 1, UserID: 9, Date: "2025-01-01", Category: "Food", Amount: 12.5, Description: "lunch"}
	second := core.Expense{ID: 2, UserID: 9, Date: "2025-01-02", Category: "Rent", Amount: 700}

	require.NoError(t, c.AppendExpense(ctx, first))
	require.NoError(t, c.AppendExpense(ctx, second))
	require.NoError(t, c.AppendExpense(ctx, first), "re-delivery is a no-op")
	require.Len(t, fake.rows, 2)
	assert.Equal(t, []any{float64(1), float64(9), "2025-01-01", "Food", 12.5, "lunch"}, fake.rows[0])

	require.NoError(t, c.DeleteExpense(ctx, 1))
	require.Len(t, fake.deletes, 1)
	assert.Equal(t, int64(42), fake.deletes[0].Range.SheetId)
	assert.Equal(t, "ROWS", fake.deletes[0].Range.Dimension)
	require.Len(t, fake.rows, 1)
	assert.Equal(t, float64(2), fake.rows[0][0])

	require.NoError(t, c.DeleteExpense(ctx, 1), "missing rows are ignored")
	require.NoError(t, c.DeleteExpense(ctx, 2))
	assert.Empty(t, fake.rows)
	assert.Equal(t, 1, fake.gets, "sheet id is resolved once")
}

func TestMissingSheetIsPermanent(t *testing.T) {
	c, fake := newFakeClientFor(t, Options{SpreadsheetID: "sheet-1", SheetName: "Archive"})
	fake.rows = [][]any{{float64(5), float64(1), "2025-01-01", "Food", 3.0, ""}}

	err := c.DeleteExpense(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrPermanent)
	assert.ErrorContains(t, err, `sheet "Archive" not found`)
	assert.Empty(t, fake.deletes)
}

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		permanent bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusTooManyRequests, false},
		{http.StatusServiceUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, fake := newFakeClient(t)
			fake.status = tt.status

			err := c.AppendExpense(context.Background(), core.Expense{ID: 1})
			require.Error(t, err)
			assert.Equal(t, tt.permanent, errors.Is(err, ports.ErrPermanent), "status %d: %v", tt.status, err)
		})
	}
}

func TestClassifyLeavesOtherErrors(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	assert.Equal(t, base, classify(base))
}

func TestNilServiceFails(t *testing.T) {
	c := &Client{spreadsheetID: "x", sheetName: defaultSheetName}
	assert.Error(t, c.AppendExpense(context.Background(), core.Expense{ID: 1}))
	assert.Error(t, c.DeleteExpense(context.Background(), 1))
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), Options{})
	assert.ErrorContains(t, err, "missing spreadsheet id")

	_, err = New(context.Background(), Options{SpreadsheetID: "id"})
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = New(context.Background(), Options{SpreadsheetID: "id", ServiceAccountFile: "/does/not/exist.json"})
	assert.ErrorContains(t, err, "read service account file")
}

func TestFindRow(t *testing.T) {
	values := [][]any{{"expense_id"}, {}, {"3"}, {float64(12)}}
	assert.Equal(t, 2, findRow(values, 3))
	assert.Equal(t, 3, findRow(values, 12))
	assert.Equal(t, -1, findRow(values, 4))
	assert.Equal(t, -1, findRow(nil, 1))
}

func TestSheetIDByTitle(t *testing.T) {
	sheets := []*gsheet.Sheet{
		nil,
		{Properties: &gsheet.SheetProperties{SheetId: 5, Title: "Ledger"}},
		{Properties: &gsheet.SheetProperties{SheetId: 6, Title: " expenses "}},
	}
	id, ok := sheetIDByTitle(sheets, "Expenses")
	assert.True(t, ok)
	assert.Equal(t, int64(6), id)

	_, ok = sheetIDByTitle(sheets, "Missing")
	assert.False(t, ok)
}

func TestDefaultSheetName(t *testing.T) {
	c := newClient(nil, Options{SpreadsheetID: " id "})
	assert.Equal(t, "Expenses", c.sheetName)
	assert.Equal(t, "id", c.spreadsheetID)
}
