package core

import "time"

// CutoffDay is the day-of-month cutoff for the first installment. Purchases
// on or after this day start owing from the following month; earlier
// purchases owe from the purchase month itself.
const CutoffDay = 5

// AnchorMonth returns the first day of the month the first installment is
// due in, applying the cutoff rule to the purchase date.
func AnchorMonth(purchase Date) time.Time {
	anchor := time.Date(purchase.Year(), purchase.Month(), 1, 0, 0, 0, 0, time.UTC)
	if purchase.Day() >= CutoffDay {
		anchor = anchor.AddDate(0, 1, 0)
	}
	return anchor
}

// DueMonths derives the ordered month keys the installments fall due in:
// the anchor month followed by one consecutive month per remaining
// installment. A non-positive total yields an empty sequence.
func DueMonths(purchase Date, installmentsTotal int) []MonthKey {
	if purchase.IsZero() || installmentsTotal < 1 {
		return nil
	}
	anchor := AnchorMonth(purchase)
	months := make([]MonthKey, installmentsTotal)
	for i := range months {
		months[i] = MonthKey(anchor.AddDate(0, i, 0).Format("2006-01"))
	}
	return months
}

// Classify flags each due month as paid or pending. A position counts as
// paid only when it is within the first len(paidMonths) positions AND the
// recorded key at that ordinal matches the derived key. The match is
// positional, not set membership: a stale paid-month list that no longer
// lines up with the derived sequence classifies as pending.
func Classify(dueMonths, paidMonths []MonthKey) []bool {
	flags := make([]bool, len(dueMonths))
	for i := range dueMonths {
		flags[i] = i < len(paidMonths) && paidMonths[i] == dueMonths[i]
	}
	return flags
}
