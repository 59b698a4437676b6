package services

import (
	"context"
	"fmt"
	"log/slog"

	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/sheets"
)

// CalendarService answers the read-side questions: the forward payment
// calendar and the overall summary. It works against the store ports, so
// it serves every backend the same way.
type CalendarService struct {
	store    sheets.ExpenseStore
	taxonomy sheets.TaxonomyReader
}

func NewCalendarService(store sheets.ExpenseStore, taxonomy sheets.TaxonomyReader) *CalendarService {
	return &CalendarService{store: store, taxonomy: taxonomy}
}

// Calendar rebuilds the pending payment calendar as of the given date.
// Records whose dates cannot be scheduled are logged and left out.
func (s *CalendarService) Calendar(ctx context.Context, asOf core.Date) ([]core.MonthBucket, core.CalendarTotals, error) {
	expenses, err := s.store.List(ctx)
	if err != nil {
		return nil, core.CalendarTotals{}, fmt.Errorf("list expenses: %w", err)
	}

	buckets, skipped := core.PendingCalendar(expenses, asOf)
	for _, id := range skipped {
		slog.WarnContext(ctx, "Expense has no usable date, excluded from calendar",
			applog.FieldExpenseID, id,
			applog.FieldAsOf, asOf.StoreString())
	}

	_, persons, cards, err := s.taxonomy.Taxonomies(ctx)
	if err != nil {
		return nil, core.CalendarTotals{}, fmt.Errorf("load taxonomies: %w", err)
	}

	return buckets, core.SummarizeCalendar(buckets, cards, persons), nil
}

// Summary folds every record into the dashboard totals.
func (s *CalendarService) Summary(ctx context.Context) (core.Summary, error) {
	expenses, err := s.store.List(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list expenses: %w", err)
	}
	return core.Summarize(expenses), nil
}
