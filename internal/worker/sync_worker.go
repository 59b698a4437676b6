// Package worker mirrors the SQLite ledger to the household Google Sheet.
// It consumes sync and delete messages and runs a periodic backup scan over
// rows still marked pending, so a lost message never loses a record.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/storage"
)

// SheetStore is the subset of the sheet client the worker drives. Sheet
// row ids never match SQLite ids, so rows are located by content.
type SheetStore interface {
	Create(ctx context.Context, e core.Expense) (string, error)
	Update(ctx context.Context, id string, e core.Expense) error
	Delete(ctx context.Context, id string) error
	FindByData(ctx context.Context, date, amount, description, person, card string) (string, error)
}

// SyncWorker handles synchronization of expenses from SQLite to the sheet.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheet     SheetStore
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheet SheetStore, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single expense sync message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "version", msg.Version)

	expense, err := w.storage.Get(ctx, strconv.FormatInt(msg.ID, 10))
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before the worker got to it; the delete message follows.
		slog.WarnContext(ctx, "Expense no longer in storage, skipping sync", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	return w.mirrorExpense(ctx, msg.ID, expense)
}

// HandleDeleteMessage removes the mirror row for a deleted record. The
// local row is already gone, so the sheet row is located from the message
// fields.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.ExpenseDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	rowID, err := w.sheet.FindByData(ctx, msg.Date, msg.Amount, msg.Description, msg.Person, msg.Card)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "No matching sheet row for deleted expense", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find sheet row: %w", err)
	}

	if err := w.sheet.Delete(ctx, rowID); err != nil {
		return fmt.Errorf("delete sheet row %s: %w", rowID, err)
	}

	slog.InfoContext(ctx, "Deleted expense from sheet", "id", msg.ID, "row", rowID)
	return nil
}

// ProcessPendingExpenses mirrors any rows that have not reached the sheet
// yet. This is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncExpenses(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, p := range pending {
		expense, err := w.storage.Get(ctx, strconv.FormatInt(p.ID, 10))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get expense", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.mirrorExpense(ctx, p.ID, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog at worker startup with a
// larger batch, recovering from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing...", "count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		expense, err := w.storage.Get(ctx, strconv.FormatInt(p.ID, 10))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get expense for startup sync", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			failed++
			continue
		}
		if err := w.mirrorExpense(ctx, p.ID, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense during startup", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending), "synced", synced, "errors", failed)
	return nil
}

// mirrorExpense writes one record to the sheet: the matching row is
// updated in place, a missing row is appended. The sync status records the
// outcome either way.
func (w *SyncWorker) mirrorExpense(ctx context.Context, id int64, e core.Expense) error {
	rowID, err := w.sheet.FindByData(ctx,
		e.Date.StoreString(), e.Amount.String(), e.Description, e.Person, e.Card)
	switch {
	case errors.Is(err, core.ErrNotFound):
		rowID, err = w.sheet.Create(ctx, e)
		if err != nil {
			w.markError(ctx, id)
			return fmt.Errorf("append to sheet: %w", err)
		}
	case err != nil:
		w.markError(ctx, id)
		return fmt.Errorf("find sheet row: %w", err)
	default:
		if err := w.sheet.Update(ctx, rowID, e); err != nil {
			w.markError(ctx, id)
			return fmt.Errorf("update sheet row %s: %w", rowID, err)
		}
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The sheet write worked; the row stays pending and gets retried.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Expense mirrored to sheet",
		"id", id, "row", rowID, "person", e.Person, "card", e.Card)
	return nil
}

func (w *SyncWorker) markError(ctx context.Context, id int64) {
	if err := w.storage.MarkSyncError(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
	}
}
