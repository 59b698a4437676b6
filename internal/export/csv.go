// Package export renders the expense ledger and the pending calendar as
// downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"gastos/internal/core"
	"gastos/internal/sheets"
)

// CSVFilename names an export after the day it was generated.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("gastos_%s.csv", now.Format("20060102"))
}

// WriteCSV writes the full ledger as CSV. The byte order mark keeps
// accented characters intact when the file lands in Excel.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)

	header := append([]string{"ID"}, sheets.Header()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Date.StoreString(),
			core.FormatAmount(e.Amount),
			e.Category,
			e.Person,
			e.Description,
			e.Card,
			strconv.Itoa(e.InstallmentsTotal),
			strconv.Itoa(e.InstallmentsPaid),
			core.JoinMonths(e.PaidMonths),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
