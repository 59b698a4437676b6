package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gastos/internal/core"
	"gastos/internal/sheets"
)

const (
	ledgerSheet   = "Gastos"
	calendarSheet = "Calendario"
)

// XLSXFilename names an export after the day it was generated.
func XLSXFilename(now time.Time) string {
	return fmt.Sprintf("gastos_%s.xlsx", now.Format("20060102"))
}

// WriteXLSX writes a workbook with the full ledger and the pending payment
// calendar as separate sheets.
func WriteXLSX(w io.Writer, expenses []core.Expense, buckets []core.MonthBucket) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", ledgerSheet)
	if _, err := f.NewSheet(calendarSheet); err != nil {
		return fmt.Errorf("create calendar sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeLedgerSheet(f, headerStyle, expenses); err != nil {
		return err
	}
	if err := writeCalendarSheet(f, headerStyle, buckets); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeLedgerSheet(f *excelize.File, headerStyle int, expenses []core.Expense) error {
	header := append([]string{"ID"}, sheets.Header()...)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ledgerSheet, cell, h); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
		f.SetCellStyle(ledgerSheet, cell, cell, headerStyle)
	}

	for i, e := range expenses {
		row := i + 2
		values := []any{
			e.ID,
			e.Date.StoreString(),
			core.FormatAmount(e.Amount),
			e.Category,
			e.Person,
			e.Description,
			e.Card,
			e.InstallmentsTotal,
			e.InstallmentsPaid,
			core.JoinMonths(e.PaidMonths),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(ledgerSheet, cell, v); err != nil {
				return fmt.Errorf("write ledger row %d: %w", row, err)
			}
		}
	}

	return f.SetColWidth(ledgerSheet, "B", "F", 18)
}

// writeCalendarSheet flattens the month buckets into one row per month,
// card or person and amount.
func writeCalendarSheet(f *excelize.File, headerStyle int, buckets []core.MonthBucket) error {
	header := []string{"Mes", "Grupo", "Valor", "Monto", "Items"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(calendarSheet, cell, h); err != nil {
			return fmt.Errorf("write calendar header: %w", err)
		}
		f.SetCellStyle(calendarSheet, cell, cell, headerStyle)
	}

	row := 2
	writeGroup := func(month core.MonthKey, group string, totals map[string]core.BucketTotal) error {
		keys := make([]string, 0, len(totals))
		for k := range totals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			bt := totals[k]
			values := []any{string(month), group, k, core.FormatAmount(bt.Total), bt.Count}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(calendarSheet, cell, v); err != nil {
					return fmt.Errorf("write calendar row %d: %w", row, err)
				}
			}
			row++
		}
		return nil
	}

	for _, b := range buckets {
		if err := writeGroup(b.Month, "tarjeta", b.ByCard); err != nil {
			return err
		}
		if err := writeGroup(b.Month, "persona", b.ByPerson); err != nil {
			return err
		}
		// One axis suffices for the month total; both sum to the same figure.
		values := []any{string(b.Month), "total", "", core.FormatAmount(monthTotal(b.ByCard)), ""}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(calendarSheet, cell, v); err != nil {
				return fmt.Errorf("write calendar total row %d: %w", row, err)
			}
		}
		row++
	}

	return f.SetColWidth(calendarSheet, "A", "E", 16)
}

// monthTotal sums one bucket axis, used for the calendar sheet totals.
func monthTotal(totals map[string]core.BucketTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, bt := range totals {
		sum = sum.Add(bt.Total)
	}
	return sum
}
