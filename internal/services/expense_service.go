// Package services orchestrates the domain engine against storage and the
// sync queue: every write passes through schedule reconciliation before it
// is persisted, and every persisted change is offered to the sheet mirror.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/storage"
)

// ExpenseService coordinates expense writes across SQLite and AMQP.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateExpense reconciles the paid-month schedule, saves the record and
// publishes a sync message. The local save is authoritative; a failed
// publish only logs.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	core.Reconcile(&e)

	ref, err := s.storage.Create(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse expense ID", "ref", ref, "error", err)
		return ref, nil // SQLite save succeeded
	}

	if err := s.publishSync(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
		// Don't fail the request; the backup scan picks the row up later.
	}

	return ref, nil
}

// UpdateExpense re-derives the paid-month schedule from the edited record
// before persisting. The paid count survives a date edit; the concrete
// months are rebuilt from the new anchor.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, e core.Expense) error {
	core.Reconcile(&e)

	if err := s.storage.Update(ctx, id, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse expense ID", "id", id, "error", err)
		return nil
	}
	version, err := s.storage.GetVersion(ctx, n)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read row version", "id", id, "error", err)
		version = 0
	}
	if err := s.publishSync(ctx, n, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
	return nil
}

// DeleteExpense removes the record locally and asks the worker to remove
// its mirror row. The record data rides along in the delete message since
// the local row is gone before the worker runs.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	e, err := s.storage.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load expense for delete: %w", err)
	}

	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	n, perr := strconv.ParseInt(id, 10, 64)
	if perr != nil {
		slog.ErrorContext(ctx, "Failed to parse expense ID", "id", id, "error", perr)
		return nil
	}
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}
	if err := s.amqpClient.PublishExpenseDelete(ctx, amqp.NewExpenseDeleteMessage(n, e)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}
	return nil
}

func (s *ExpenseService) publishSync(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishExpenseSync(ctx, id, version)
}

// Close closes both storage and AMQP connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
