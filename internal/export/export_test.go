package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gastos/internal/core"

	"github.com/xuri/excelize/v2"
)

func sampleExpense(t *testing.T) core.Expense {
	t.Helper()
	e := core.Expense{
		ID:                "1",
		Amount:            core.ParseAmount("1.234,56"),
		Category:          "Compras",
		Person:            "Marcelo",
		Card:              "OCA",
		Description:       "notebook",
		InstallmentsTotal: 3,
		InstallmentsPaid:  1,
	}
	d, err := core.ParseDate("03/01/2024")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	e.Date = d
	core.Reconcile(&e)
	return e
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []core.Expense{sampleExpense(t)}); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\xEF\xBB\xBF") {
		t.Fatalf("missing BOM")
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\xEF\xBB\xBF")), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Fecha,Monto") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "03/01/2024") || !strings.Contains(lines[1], "1.234,56") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
	if !strings.Contains(lines[1], "2024-01") {
		t.Fatalf("paid months missing: %s", lines[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	e := sampleExpense(t)
	asOf := core.NewDate(2024, 1, 1)
	buckets, _ := core.PendingCalendar([]core.Expense{e}, asOf)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, []core.Expense{e}, buckets); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(ledgerSheet, "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "03/01/2024" {
		t.Fatalf("unexpected ledger date: %q", got)
	}

	rows, err := f.GetRows(calendarSheet)
	if err != nil {
		t.Fatalf("read calendar sheet: %v", err)
	}
	// Header, plus card, person and total rows for both pending months.
	if len(rows) != 7 {
		t.Fatalf("expected 7 calendar rows, got %d", len(rows))
	}
	if rows[1][0] != "2024-02" {
		t.Fatalf("unexpected first calendar month: %q", rows[1][0])
	}
}

func TestFilenames(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	if got := CSVFilename(now); got != "gastos_20240315.csv" {
		t.Fatalf("unexpected csv filename: %s", got)
	}
	if got := XLSXFilename(now); got != "gastos_20240315.xlsx" {
		t.Fatalf("unexpected xlsx filename: %s", got)
	}
}
