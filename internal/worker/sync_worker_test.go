package worker

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/storage"
)

// fakeSheet records mirror operations in memory.
type fakeSheet struct {
	rows    map[string]core.Expense
	nextRow int
	creates int
	updates int
	deletes int
}

func newFakeSheet() *fakeSheet {
	return &fakeSheet{rows: make(map[string]core.Expense), nextRow: 1}
}

func (f *fakeSheet) Create(_ context.Context, e core.Expense) (string, error) {
	id := strconv.Itoa(f.nextRow)
	f.nextRow++
	f.creates++
	e.ID = id
	f.rows[id] = e
	return id, nil
}

func (f *fakeSheet) Update(_ context.Context, id string, e core.Expense) error {
	if _, ok := f.rows[id]; !ok {
		return core.ErrNotFound
	}
	f.updates++
	e.ID = id
	f.rows[id] = e
	return nil
}

func (f *fakeSheet) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return core.ErrNotFound
	}
	f.deletes++
	delete(f.rows, id)
	return nil
}

func (f *fakeSheet) FindByData(_ context.Context, date, amount, description, person, card string) (string, error) {
	want := core.ParseAmount(amount)
	for id, e := range f.rows {
		if e.Date.StoreString() == date && e.Description == description &&
			e.Person == person && e.Card == card && e.Amount.Equal(want) {
			return id, nil
		}
	}
	return "", core.ErrNotFound
}

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedExpense(t *testing.T, repo *storage.SQLiteRepository, description string) string {
	t.Helper()
	e := core.Expense{
		Amount:            core.ParseAmount("350"),
		Category:          "Servicios",
		Person:            "Yenny",
		Card:              "BROU",
		Description:       description,
		InstallmentsTotal: 2,
		InstallmentsPaid:  0,
	}
	d, err := core.ParseDate("10/03/2024")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	e.Date = d
	core.Reconcile(&e)

	id, err := repo.Create(context.Background(), e)
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	return id
}

func TestHandleSyncMessageAppendsNewRow(t *testing.T) {
	repo := newTestRepo(t)
	sheet := newFakeSheet()
	w := NewSyncWorker(repo, sheet, 10)
	ctx := context.Background()

	id := seedExpense(t, repo, "internet")
	n, _ := strconv.ParseInt(id, 10, 64)

	if err := w.HandleSyncMessage(ctx, amqp.NewExpenseSyncMessage(n, 1)); err != nil {
		t.Fatalf("handle sync: %v", err)
	}
	if sheet.creates != 1 || sheet.updates != 0 {
		t.Fatalf("expected 1 append, got creates=%d updates=%d", sheet.creates, sheet.updates)
	}

	pending, err := repo.GetPendingSyncExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("row should be marked synced, still pending: %v", pending)
	}
}

func TestHandleSyncMessageUpdatesExistingRow(t *testing.T) {
	repo := newTestRepo(t)
	sheet := newFakeSheet()
	w := NewSyncWorker(repo, sheet, 10)
	ctx := context.Background()

	id := seedExpense(t, repo, "internet")
	n, _ := strconv.ParseInt(id, 10, 64)

	// First sync appends, second one must match the existing row.
	if err := w.HandleSyncMessage(ctx, amqp.NewExpenseSyncMessage(n, 1)); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := w.HandleSyncMessage(ctx, amqp.NewExpenseSyncMessage(n, 2)); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if sheet.creates != 1 || sheet.updates != 1 {
		t.Fatalf("expected append then update, got creates=%d updates=%d", sheet.creates, sheet.updates)
	}
}

func TestHandleSyncMessageMissingRecord(t *testing.T) {
	repo := newTestRepo(t)
	sheet := newFakeSheet()
	w := NewSyncWorker(repo, sheet, 10)

	// A record deleted before the worker runs is not an error.
	if err := w.HandleSyncMessage(context.Background(), amqp.NewExpenseSyncMessage(42, 1)); err != nil {
		t.Fatalf("expected nil for missing record, got %v", err)
	}
	if sheet.creates != 0 {
		t.Fatalf("nothing should reach the sheet, got %d creates", sheet.creates)
	}
}

func TestHandleDeleteMessage(t *testing.T) {
	repo := newTestRepo(t)
	sheet := newFakeSheet()
	w := NewSyncWorker(repo, sheet, 10)
	ctx := context.Background()

	id := seedExpense(t, repo, "internet")
	n, _ := strconv.ParseInt(id, 10, 64)
	if err := w.HandleSyncMessage(ctx, amqp.NewExpenseSyncMessage(n, 1)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	e, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := w.HandleDeleteMessage(ctx, amqp.NewExpenseDeleteMessage(n, e)); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if sheet.deletes != 1 || len(sheet.rows) != 0 {
		t.Fatalf("sheet row not removed: deletes=%d rows=%d", sheet.deletes, len(sheet.rows))
	}

	// Replayed delete finds nothing and stays quiet.
	if err := w.HandleDeleteMessage(ctx, amqp.NewExpenseDeleteMessage(n, e)); err != nil {
		t.Fatalf("replayed delete should be nil, got %v", err)
	}
}

func TestProcessPendingExpenses(t *testing.T) {
	repo := newTestRepo(t)
	sheet := newFakeSheet()
	w := NewSyncWorker(repo, sheet, 10)
	ctx := context.Background()

	seedExpense(t, repo, "luz")
	seedExpense(t, repo, "agua")

	if err := w.ProcessPendingExpenses(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if sheet.creates != 2 {
		t.Fatalf("expected 2 appends, got %d", sheet.creates)
	}

	// A second pass finds nothing left to do.
	if err := w.ProcessPendingExpenses(ctx); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if sheet.creates != 2 || sheet.updates != 0 {
		t.Fatalf("second pass touched the sheet: creates=%d updates=%d", sheet.creates, sheet.updates)
	}
}
