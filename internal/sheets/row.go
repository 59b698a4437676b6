package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"gastos/internal/core"
)

// Spreadsheet column order, matching the household sheet:
// Fecha, Monto, Categoria, Persona, Descripcion, Tarjeta,
// CuotasTotales, CuotasPagadas, MesesPagados.
const RowWidth = 9

// Header returns the sheet header row.
func Header() []string {
	return []string{"Fecha", "Monto", "Categoria", "Persona", "Descripcion", "Tarjeta", "CuotasTotales", "CuotasPagadas", "MesesPagados"}
}

// EncodeRow serializes an expense to its sheet row form. Dates render as
// DD/MM/YYYY and paid months as a comma-joined token list.
func EncodeRow(e core.Expense) []any {
	return []any{
		e.Date.StoreString(),
		e.Amount.String(),
		e.Category,
		e.Person,
		e.Description,
		e.Card,
		e.InstallmentsTotal,
		e.InstallmentsPaid,
		core.JoinMonths(e.PaidMonths),
	}
}

// DecodeRow parses a sheet row back into an expense. Cell text is forgiving:
// amounts go through the currency normalizer, an unparsable date leaves the
// zero Date, and installment counts fall back to 1 total / 0 paid the way
// the original sheet import did.
func DecodeRow(id string, row []any) core.Expense {
	get := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}

	e := core.Expense{
		ID:          id,
		Amount:      core.ParseAmount(get(1)),
		Category:    get(2),
		Person:      get(3),
		Description: get(4),
		Card:        get(5),
	}

	if d, err := core.ParseDate(get(0)); err == nil {
		e.Date = d
	}

	e.InstallmentsTotal = 1
	if n, err := strconv.Atoi(get(6)); err == nil && n >= 1 {
		e.InstallmentsTotal = n
	}
	if n, err := strconv.Atoi(get(7)); err == nil && n >= 0 {
		e.InstallmentsPaid = n
	}
	e.PaidMonths = core.SplitMonths(get(8))

	return e
}
