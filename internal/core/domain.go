package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Default taxonomies for the household. The memory store can override these
// with seed files; the fixed sets also bound the grand-total views of the
// pending calendar.
var (
	DefaultCategories = []string{"Compras", "Supermercado", "Servicios", "Salidas", "Educación", "Salud", "Transporte", "Otros"}
	DefaultPersons    = []string{"Marcelo", "Yenny"}
	DefaultCards      = []string{"BROU", "Santander", "OCA", "Efectivo", "Transferencia"}
)

type (
	// MonthKey identifies a calendar month in "YYYY-MM" form. Keys compare
	// chronologically under plain string ordering.
	MonthKey string

	Date struct {
		time.Time
	}

	// Expense is the unit of record. Amount is the monthly charge, due once
	// per installment month derived from the purchase date.
	Expense struct {
		ID                string
		Date              Date
		Amount            decimal.Decimal
		Category          string
		Person            string
		Card              string
		Description       string
		InstallmentsTotal int
		InstallmentsPaid  int
		// PaidMonths is the ordered set of due months already settled.
		// Its length always equals InstallmentsPaid after reconciliation.
		PaidMonths []MonthKey
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidInstallments = errors.New("invalid installments")
	ErrEmptyPerson         = errors.New("empty person")
	ErrEmptyCard           = errors.New("empty card")
	ErrEmptyCategory       = errors.New("empty category")
	ErrNotFound            = errors.New("expense not found")
)

const storeDateLayout = "02/01/2006"

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the persisted DD/MM/YYYY form. The zero Date signals an
// unparsable or missing date; such records stay visible in listings but are
// skipped by the pending calendar.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(storeDateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// StoreString renders the date in the persisted DD/MM/YYYY form.
func (d Date) StoreString() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(storeDateLayout)
}

// MonthKey returns the key of the date's calendar month.
func (d Date) MonthKey() MonthKey {
	return MonthKey(d.Format("2006-01"))
}

func (k MonthKey) String() string { return string(k) }

// JoinMonths serializes paid months to the comma-joined store form.
func JoinMonths(months []MonthKey) string {
	parts := make([]string, 0, len(months))
	for _, m := range months {
		parts = append(parts, string(m))
	}
	return strings.Join(parts, ",")
}

// SplitMonths parses the comma-joined store form, dropping empty tokens.
func SplitMonths(s string) []MonthKey {
	var out []MonthKey
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, MonthKey(tok))
	}
	return out
}

// Validate checks the record invariants. A zero Date is allowed so records
// with unusable dates keep showing up in listings and exports.
func (e Expense) Validate() error {
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if e.InstallmentsTotal < 1 {
		return ErrInvalidInstallments
	}
	if e.InstallmentsPaid < 0 || e.InstallmentsPaid > e.InstallmentsTotal {
		return ErrInvalidInstallments
	}
	if len(e.PaidMonths) != e.InstallmentsPaid {
		return ErrInvalidInstallments
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Person) == "" {
		return ErrEmptyPerson
	}
	if strings.TrimSpace(e.Card) == "" {
		return ErrEmptyCard
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Settled reports whether every installment has been paid. Settled records
// contribute nothing to the pending calendar.
func (e Expense) Settled() bool {
	return e.InstallmentsPaid >= e.InstallmentsTotal
}
