package core

// PaidMonthsFor rebuilds the paid-month set for a record: the first `paid`
// entries of the due-month sequence derived from the current date. The count
// is clamped into [0, total] so the function stays total for any input.
//
// Paid months are always rebuilt positionally from the current purchase
// date. Editing the date of a partially paid record therefore shifts which
// calendar months count as paid while preserving how many are paid.
func PaidMonthsFor(purchase Date, installmentsTotal, installmentsPaid int) []MonthKey {
	if installmentsPaid < 0 {
		installmentsPaid = 0
	}
	if installmentsPaid > installmentsTotal {
		installmentsPaid = installmentsTotal
	}
	if installmentsPaid == 0 {
		return nil
	}
	due := DueMonths(purchase, installmentsTotal)
	if len(due) < installmentsPaid {
		return due
	}
	return due[:installmentsPaid]
}

// Reconcile normalizes a record before persistence: installment counts are
// clamped into range and PaidMonths is rebuilt from the current date so that
// len(PaidMonths) == InstallmentsPaid holds afterwards. It is invoked on
// every create and update.
func Reconcile(e *Expense) {
	if e.InstallmentsTotal < 1 {
		e.InstallmentsTotal = 1
	}
	if e.InstallmentsPaid < 0 {
		e.InstallmentsPaid = 0
	}
	if e.InstallmentsPaid > e.InstallmentsTotal {
		e.InstallmentsPaid = e.InstallmentsTotal
	}
	e.PaidMonths = PaidMonthsFor(e.Date, e.InstallmentsTotal, e.InstallmentsPaid)
	// A record without a usable date has no derivable schedule; the paid
	// count follows the (empty) paid-month set to keep the invariant.
	e.InstallmentsPaid = len(e.PaidMonths)
}
