// Package storage persists expenses in SQLite. Dates keep the DD/MM/YYYY
// text form and paid months the comma-joined token form, so rows stay
// interchangeable with the household spreadsheet the worker mirrors to.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states for the sheet mirror.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

// PendingSyncExpense is the minimal record the sync worker needs to pick up
// a row that has not reached the sheet yet.
type PendingSyncExpense struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const expenseColumns = "id, date, amount, category, person, description, card, installments_total, installments_paid, paid_months"

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		id         int64
		dateText   string
		amountText string
		e          core.Expense
		paidMonths string
	)
	err := row.Scan(&id, &dateText, &amountText, &e.Category, &e.Person, &e.Description, &e.Card,
		&e.InstallmentsTotal, &e.InstallmentsPaid, &paidMonths)
	if err != nil {
		return core.Expense{}, err
	}
	e.ID = strconv.FormatInt(id, 10)
	e.Amount = core.ParseAmount(amountText)
	if d, derr := core.ParseDate(dateText); derr == nil {
		e.Date = d
	}
	e.PaidMonths = core.SplitMonths(paidMonths)
	return e, nil
}

// Create implements sheets.ExpenseStore.
func (r *SQLiteRepository) Create(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (date, amount, category, person, description, card,
			installments_total, installments_paid, paid_months, sync_status, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		e.Date.StoreString(), e.Amount.String(), e.Category, e.Person, e.Description, e.Card,
		e.InstallmentsTotal, e.InstallmentsPaid, core.JoinMonths(e.PaidMonths), SyncPending)
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"person", e.Person,
		"card", e.Card,
		"installments_total", e.InstallmentsTotal,
		"installments_paid", e.InstallmentsPaid)

	return strconv.FormatInt(id, 10), nil
}

// Get implements sheets.ExpenseStore.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Expense, error) {
	n, err := parseID(id)
	if err != nil {
		return core.Expense{}, err
	}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", n)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

// List implements sheets.ExpenseStore.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Update implements sheets.ExpenseStore. The row version bumps so the sync
// worker mirrors the edit to the sheet.
func (r *SQLiteRepository) Update(ctx context.Context, id string, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET date = ?, amount = ?, category = ?, person = ?, description = ?,
			card = ?, installments_total = ?, installments_paid = ?, paid_months = ?,
			sync_status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		e.Date.StoreString(), e.Amount.String(), e.Category, e.Person, e.Description, e.Card,
		e.InstallmentsTotal, e.InstallmentsPaid, core.JoinMonths(e.PaidMonths), SyncPending, n)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense updated in SQLite", "id", id,
		"installments_paid", e.InstallmentsPaid, "paid_months", core.JoinMonths(e.PaidMonths))
	return nil
}

// Delete implements sheets.ExpenseStore.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", n)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

// Taxonomies implements sheets.TaxonomyReader with the fixed household sets.
func (r *SQLiteRepository) Taxonomies(_ context.Context) ([]string, []string, []string, error) {
	return core.DefaultCategories, core.DefaultPersons, core.DefaultCards, nil
}

// GetVersion returns the current row version for an expense.
func (r *SQLiteRepository) GetVersion(ctx context.Context, id int64) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx,
		"SELECT version FROM expenses WHERE id = ?", id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get expense version: %w", err)
	}
	return version, nil
}

// GetPendingSyncExpenses returns rows that still need mirroring to the sheet.
func (r *SQLiteRepository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]PendingSyncExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, created_at FROM expenses
		WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncExpense
	for rows.Next() {
		var p PendingSyncExpense
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync expense: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync expenses: %w", err)
	}
	return out, nil
}

// MarkSynced marks an expense as successfully mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET sync_status = ? WHERE id = ?", SyncDone, id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

// MarkSyncError flags an expense whose mirror attempt failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET sync_status = ? WHERE id = ?", SyncError, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "id", id)
	return nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n < 1 {
		return 0, core.ErrNotFound
	}
	return n, nil
}
