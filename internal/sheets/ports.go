package sheets

import (
	"context"

	"gastos/internal/core"
)

// Ports for outbound adapters. The store owns id assignment and the
// serialized text form of dates and paid months; callers work with the
// in-memory domain types only.
type (
	ExpenseStore interface {
		Create(ctx context.Context, e core.Expense) (id string, err error)
		Get(ctx context.Context, id string) (core.Expense, error)
		List(ctx context.Context) ([]core.Expense, error)
		Update(ctx context.Context, id string, e core.Expense) error
		Delete(ctx context.Context, id string) error
	}

	// TaxonomyReader exposes the fixed categorical sets used by forms and
	// by the calendar grand totals.
	TaxonomyReader interface {
		Taxonomies(ctx context.Context) (categories, persons, cards []string, err error)
	}
)
