package sheets

import (
	"testing"

	"gastos/internal/core"
)

func TestEncodeRowRoundTrip(t *testing.T) {
	e := core.Expense{
		Amount:            core.ParseAmount("1.234,56"),
		Category:          "Compras",
		Person:            "Yenny",
		Card:              "OCA",
		Description:       "notebook",
		InstallmentsTotal: 6,
		InstallmentsPaid:  2,
		PaidMonths:        []core.MonthKey{"2024-02", "2024-03"},
	}
	d, err := core.ParseDate("15/01/2024")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	e.Date = d

	row := EncodeRow(e)
	if len(row) != RowWidth {
		t.Fatalf("expected %d cells, got %d", RowWidth, len(row))
	}
	if row[0] != "15/01/2024" {
		t.Fatalf("unexpected date cell: %v", row[0])
	}
	if row[8] != "2024-02,2024-03" {
		t.Fatalf("unexpected paid months cell: %v", row[8])
	}

	got := DecodeRow("7", row)
	if got.ID != "7" {
		t.Fatalf("unexpected id: %s", got.ID)
	}
	if !got.Amount.Equal(e.Amount) {
		t.Fatalf("amount mismatch: %s vs %s", got.Amount, e.Amount)
	}
	if got.Date.StoreString() != "15/01/2024" {
		t.Fatalf("date mismatch: %s", got.Date.StoreString())
	}
	if len(got.PaidMonths) != 2 || got.PaidMonths[0] != "2024-02" {
		t.Fatalf("paid months mismatch: %v", got.PaidMonths)
	}
}

func TestDecodeRowForgiving(t *testing.T) {
	tests := []struct {
		name string
		row  []any
	}{
		{"short row", []any{"01/01/2024", "100"}},
		{"garbage cells", []any{"no-date", "no-amount", "", "", "", "", "abc", "xyz", ""}},
		{"empty row", []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := DecodeRow("1", tt.row)
			if e.InstallmentsTotal < 1 {
				t.Fatalf("installments total fell below 1: %d", e.InstallmentsTotal)
			}
			if e.InstallmentsPaid < 0 {
				t.Fatalf("negative paid count: %d", e.InstallmentsPaid)
			}
			if e.Amount.IsNegative() {
				t.Fatalf("negative amount from garbage: %s", e.Amount)
			}
		})
	}
}

func TestDecodeRowDefaults(t *testing.T) {
	e := DecodeRow("3", []any{"bad-date", "garbage", "Servicios", "Marcelo", "luz", "BROU", "bad", "bad", ""})
	if !e.Amount.IsZero() {
		t.Fatalf("expected zero amount, got %s", e.Amount)
	}
	if !e.Date.IsZero() {
		t.Fatalf("expected zero date, got %v", e.Date)
	}
	if e.InstallmentsTotal != 1 || e.InstallmentsPaid != 0 {
		t.Fatalf("expected 1/0 installments, got %d/%d", e.InstallmentsTotal, e.InstallmentsPaid)
	}
}
