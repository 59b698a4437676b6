package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

type (
	// BucketTotal is a running (amount, item count) pair for one grouping
	// value inside a month bucket.
	BucketTotal struct {
		Total decimal.Decimal
		Count int
	}

	// MonthBucket aggregates the pending installments due in one month,
	// grouped by card and by person. Buckets are ephemeral: they are
	// rebuilt from the full record set on every query.
	MonthBucket struct {
		Month    MonthKey
		ByCard   map[string]BucketTotal
		ByPerson map[string]BucketTotal
	}

	// CalendarTotals is the cross-month summary of a pending calendar.
	// Overall covers every bucket entry; ByCard and ByPerson are limited
	// to the fixed known sets, silently dropping values outside them.
	CalendarTotals struct {
		Overall  decimal.Decimal
		Items    int
		ByCard   map[string]decimal.Decimal
		ByPerson map[string]decimal.Decimal
	}
)

func addTo(m map[string]BucketTotal, key string, amount decimal.Decimal) {
	bt := m[key]
	bt.Total = bt.Total.Add(amount)
	bt.Count++
	m[key] = bt
}

// PendingCalendar builds the forward-looking payment calendar: for every
// record with unpaid installments, each unpaid due month at or after asOf's
// month gets the record's amount booked under its card and its person.
// Settled records and months in the past contribute nothing.
//
// Records with a zero (unparsable) date cannot be scheduled; their IDs come
// back in skipped so the caller can log the data-quality issue.
//
// Buckets are sorted by ascending month key.
func PendingCalendar(expenses []Expense, asOf Date) (buckets []MonthBucket, skipped []string) {
	horizon := asOf.MonthKey()
	byMonth := make(map[MonthKey]*MonthBucket)

	for _, e := range expenses {
		if e.Settled() {
			continue
		}
		if e.Date.IsZero() {
			skipped = append(skipped, e.ID)
			continue
		}
		due := DueMonths(e.Date, e.InstallmentsTotal)
		paid := Classify(due, e.PaidMonths)
		for i, month := range due {
			if paid[i] || month < horizon {
				continue
			}
			b, ok := byMonth[month]
			if !ok {
				b = &MonthBucket{
					Month:    month,
					ByCard:   make(map[string]BucketTotal),
					ByPerson: make(map[string]BucketTotal),
				}
				byMonth[month] = b
			}
			addTo(b.ByCard, e.Card, e.Amount)
			addTo(b.ByPerson, e.Person, e.Amount)
		}
	}

	buckets = make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })
	return buckets, skipped
}

// SummarizeCalendar computes grand totals over a pending calendar. The
// overall figure sums every bucket entry; the per-card and per-person
// breakdowns only count values in the given known sets. Values outside the
// sets stay visible in the month buckets but drop out of the breakdowns.
func SummarizeCalendar(buckets []MonthBucket, cards, persons []string) CalendarTotals {
	totals := CalendarTotals{
		ByCard:   make(map[string]decimal.Decimal),
		ByPerson: make(map[string]decimal.Decimal),
	}
	for _, c := range cards {
		totals.ByCard[c] = decimal.Zero
	}
	for _, p := range persons {
		totals.ByPerson[p] = decimal.Zero
	}

	for _, b := range buckets {
		for card, bt := range b.ByCard {
			totals.Overall = totals.Overall.Add(bt.Total)
			totals.Items += bt.Count
			if cur, ok := totals.ByCard[card]; ok {
				totals.ByCard[card] = cur.Add(bt.Total)
			}
		}
		for person, bt := range b.ByPerson {
			if cur, ok := totals.ByPerson[person]; ok {
				totals.ByPerson[person] = cur.Add(bt.Total)
			}
		}
	}
	return totals
}
