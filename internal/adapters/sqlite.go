// Package adapters bridges concrete storage implementations onto the store
// ports the rest of the application consumes.
package adapters

import (
	"context"

	"gastos/internal/core"
	"gastos/internal/services"
	"gastos/internal/sheets"
	"gastos/internal/storage"
)

// SQLiteAdapter exposes the SQLite backend through the store ports. Writes
// go through the expense service so reconciliation and sheet-mirror
// messages happen on every change; reads hit the repository directly.
type SQLiteAdapter struct {
	service *services.ExpenseService
	repo    *storage.SQLiteRepository
}

var (
	_ sheets.ExpenseStore   = (*SQLiteAdapter)(nil)
	_ sheets.TaxonomyReader = (*SQLiteAdapter)(nil)
)

func NewSQLiteAdapter(service *services.ExpenseService, repo *storage.SQLiteRepository) *SQLiteAdapter {
	return &SQLiteAdapter{service: service, repo: repo}
}

func (a *SQLiteAdapter) Create(ctx context.Context, e core.Expense) (string, error) {
	return a.service.CreateExpense(ctx, e)
}

func (a *SQLiteAdapter) Get(ctx context.Context, id string) (core.Expense, error) {
	return a.repo.Get(ctx, id)
}

func (a *SQLiteAdapter) List(ctx context.Context) ([]core.Expense, error) {
	return a.repo.List(ctx)
}

func (a *SQLiteAdapter) Update(ctx context.Context, id string, e core.Expense) error {
	return a.service.UpdateExpense(ctx, id, e)
}

func (a *SQLiteAdapter) Delete(ctx context.Context, id string) error {
	return a.service.DeleteExpense(ctx, id)
}

func (a *SQLiteAdapter) Taxonomies(ctx context.Context) ([]string, []string, []string, error) {
	return a.repo.Taxonomies(ctx)
}

// Close shuts down the service, which owns storage and AMQP.
func (a *SQLiteAdapter) Close() error {
	return a.service.Close()
}
