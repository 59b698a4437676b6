package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func expense(id string, d Date, amount int64, person, card string, total, paid int) Expense {
	e := Expense{
		ID:                id,
		Date:              d,
		Amount:            decimal.NewFromInt(amount),
		Category:          "Compras",
		Person:            person,
		Card:              card,
		Description:       "test",
		InstallmentsTotal: total,
		InstallmentsPaid:  paid,
	}
	Reconcile(&e)
	return e
}

func TestPendingCalendarBasics(t *testing.T) {
	asOf := NewDate(2024, 3, 15)
	expenses := []Expense{
		// due 2024-01..03, two paid: only 2024-03 pending and in range
		expense("1", NewDate(2024, 1, 3), 100, "Marcelo", "BROU", 3, 2),
		// due 2024-02..04: 2024-02 is before asOf and drops out
		expense("2", NewDate(2024, 1, 7), 50, "Yenny", "OCA", 3, 0),
		// fully settled: contributes nothing
		expense("3", NewDate(2024, 1, 3), 999, "Marcelo", "BROU", 2, 2),
	}

	buckets, skipped := PendingCalendar(expenses, asOf)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped records: %v", skipped)
	}
	if len(buckets) != 2 {
		t.Fatalf("bucket count = %d, want 2 (got %+v)", len(buckets), buckets)
	}
	if buckets[0].Month != "2024-03" || buckets[1].Month != "2024-04" {
		t.Fatalf("bucket months = %s, %s", buckets[0].Month, buckets[1].Month)
	}

	march := buckets[0]
	if bt := march.ByCard["BROU"]; !bt.Total.Equal(decimal.NewFromInt(100)) || bt.Count != 1 {
		t.Fatalf("march BROU = %+v", bt)
	}
	if bt := march.ByCard["OCA"]; !bt.Total.Equal(decimal.NewFromInt(50)) || bt.Count != 1 {
		t.Fatalf("march OCA = %+v", bt)
	}

	april := buckets[1]
	if bt := april.ByPerson["Yenny"]; !bt.Total.Equal(decimal.NewFromInt(50)) || bt.Count != 1 {
		t.Fatalf("april Yenny = %+v", bt)
	}
	if _, ok := april.ByCard["BROU"]; ok {
		t.Fatalf("april should not contain record 1")
	}
}

func TestPendingCalendarSkipsUnparsableDates(t *testing.T) {
	broken := Expense{
		ID:                "9",
		Amount:            decimal.NewFromInt(10),
		Category:          "Otros",
		Person:            "Yenny",
		Card:              "Efectivo",
		InstallmentsTotal: 2,
	}
	buckets, skipped := PendingCalendar([]Expense{broken}, NewDate(2024, 1, 1))
	if len(buckets) != 0 {
		t.Fatalf("zero-date record produced buckets: %+v", buckets)
	}
	if len(skipped) != 1 || skipped[0] != "9" {
		t.Fatalf("skipped = %v, want [9]", skipped)
	}
}

func TestPendingCalendarAxesBalance(t *testing.T) {
	// Every pending installment is counted once per axis, so card and
	// person sums must match month by month.
	asOf := NewDate(2024, 1, 1)
	expenses := []Expense{
		expense("1", NewDate(2024, 1, 3), 120, "Marcelo", "BROU", 6, 1),
		expense("2", NewDate(2024, 2, 9), 75, "Yenny", "Santander", 3, 0),
		expense("3", NewDate(2024, 3, 1), 33, "Yenny", "Contado", 2, 0),
	}
	buckets, _ := PendingCalendar(expenses, asOf)
	for _, b := range buckets {
		var cardSum, personSum decimal.Decimal
		var cardN, personN int
		for _, bt := range b.ByCard {
			cardSum = cardSum.Add(bt.Total)
			cardN += bt.Count
		}
		for _, bt := range b.ByPerson {
			personSum = personSum.Add(bt.Total)
			personN += bt.Count
		}
		if !cardSum.Equal(personSum) || cardN != personN {
			t.Fatalf("month %s axes diverge: cards %s/%d persons %s/%d",
				b.Month, cardSum, cardN, personSum, personN)
		}
	}
}

func TestSummarizeCalendarDropsUnknownFromGrandTotals(t *testing.T) {
	asOf := NewDate(2024, 1, 1)
	expenses := []Expense{
		expense("1", NewDate(2024, 1, 3), 100, "Marcelo", "BROU", 1, 0),
		// unknown card and person: visible in buckets, absent from breakdowns
		expense("2", NewDate(2024, 1, 3), 40, "Visita", "Cabal", 1, 0),
	}
	buckets, _ := PendingCalendar(expenses, asOf)
	if len(buckets) != 1 {
		t.Fatalf("bucket count = %d, want 1", len(buckets))
	}
	if _, ok := buckets[0].ByCard["Cabal"]; !ok {
		t.Fatalf("unknown card missing from month bucket")
	}

	totals := SummarizeCalendar(buckets, DefaultCards, DefaultPersons)
	if !totals.Overall.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("overall = %s, want 140", totals.Overall)
	}
	if totals.Items != 2 {
		t.Fatalf("items = %d, want 2", totals.Items)
	}
	if _, ok := totals.ByCard["Cabal"]; ok {
		t.Fatalf("unknown card leaked into grand totals")
	}
	var cardSum decimal.Decimal
	for _, v := range totals.ByCard {
		cardSum = cardSum.Add(v)
	}
	if !cardSum.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("known-card sum = %s, want 100", cardSum)
	}
}
