package core

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPaidMonthsFor(t *testing.T) {
	cases := []struct {
		date  Date
		total int
		paid  int
		want  []MonthKey
	}{
		{NewDate(2024, 1, 3), 3, 0, nil},
		{NewDate(2024, 1, 3), 3, 2, []MonthKey{"2024-01", "2024-02"}},
		{NewDate(2024, 1, 7), 3, 2, []MonthKey{"2024-02", "2024-03"}},
		{NewDate(2024, 1, 3), 3, 3, []MonthKey{"2024-01", "2024-02", "2024-03"}},
		// out-of-range counts clamp instead of failing
		{NewDate(2024, 1, 3), 3, 7, []MonthKey{"2024-01", "2024-02", "2024-03"}},
		{NewDate(2024, 1, 3), 3, -1, nil},
	}
	for i, tc := range cases {
		got := PaidMonthsFor(tc.date, tc.total, tc.paid)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d PaidMonthsFor = %v, want %v", i, got, tc.want)
		}
	}
}

func TestReconcileShiftsPaidMonthsOnDateEdit(t *testing.T) {
	e := Expense{
		ID:                "7",
		Date:              NewDate(2024, 1, 3),
		Amount:            decimal.NewFromInt(300),
		Category:          "Compras",
		Person:            "Marcelo",
		Card:              "BROU",
		InstallmentsTotal: 3,
		InstallmentsPaid:  2,
	}
	Reconcile(&e)
	if want := []MonthKey{"2024-01", "2024-02"}; !reflect.DeepEqual(e.PaidMonths, want) {
		t.Fatalf("initial paid months = %v, want %v", e.PaidMonths, want)
	}

	// Editing the purchase date rebuilds the paid set from the new anchor
	// while the paid count stays the same.
	e.Date = NewDate(2024, 4, 20)
	Reconcile(&e)
	if want := []MonthKey{"2024-05", "2024-06"}; !reflect.DeepEqual(e.PaidMonths, want) {
		t.Fatalf("shifted paid months = %v, want %v", e.PaidMonths, want)
	}
	if e.InstallmentsPaid != 2 {
		t.Fatalf("paid count changed to %d, want 2", e.InstallmentsPaid)
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("reconciled expense invalid: %v", err)
	}
}

func TestReconcileClampsAndKeepsInvariant(t *testing.T) {
	e := Expense{
		Date:              NewDate(2024, 2, 10),
		Amount:            decimal.NewFromInt(50),
		Category:          "Servicios",
		Person:            "Yenny",
		Card:              "OCA",
		InstallmentsTotal: 2,
		InstallmentsPaid:  9,
	}
	Reconcile(&e)
	if e.InstallmentsPaid != 2 {
		t.Fatalf("paid count = %d, want clamped 2", e.InstallmentsPaid)
	}
	if len(e.PaidMonths) != e.InstallmentsPaid {
		t.Fatalf("invariant broken: %d paid months for count %d", len(e.PaidMonths), e.InstallmentsPaid)
	}
}

func TestReconcileZeroDateDropsPaidMonths(t *testing.T) {
	e := Expense{
		Amount:            decimal.NewFromInt(10),
		Category:          "Otros",
		Person:            "Yenny",
		Card:              "Efectivo",
		InstallmentsTotal: 3,
		InstallmentsPaid:  2,
		PaidMonths:        []MonthKey{"2024-01", "2024-02"},
	}
	Reconcile(&e)
	if len(e.PaidMonths) != 0 || e.InstallmentsPaid != 0 {
		t.Fatalf("zero-date record kept paid state: months=%v count=%d", e.PaidMonths, e.InstallmentsPaid)
	}
}
