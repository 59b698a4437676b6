package core

import "github.com/shopspring/decimal"

// Summary is the compact dashboard view over all records: grand total,
// record count, average amount and the per-person distribution.
type Summary struct {
	Total    decimal.Decimal
	Count    int
	Average  decimal.Decimal
	ByPerson map[string]decimal.Decimal
}

// Summarize folds the full record set into a Summary. The average is
// rounded to two decimal places; an empty set yields a zero summary.
func Summarize(expenses []Expense) Summary {
	s := Summary{ByPerson: make(map[string]decimal.Decimal)}
	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		s.Count++
		s.ByPerson[e.Person] = s.ByPerson[e.Person].Add(e.Amount)
	}
	if s.Count > 0 {
		s.Average = s.Total.DivRound(decimal.NewFromInt(int64(s.Count)), 2)
	}
	return s
}
