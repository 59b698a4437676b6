package core

import (
	"reflect"
	"testing"
)

func TestDueMonths(t *testing.T) {
	cases := []struct {
		date  Date
		total int
		want  []MonthKey
	}{
		// day 3 < 5: anchor is the purchase month itself
		{NewDate(2024, 1, 3), 3, []MonthKey{"2024-01", "2024-02", "2024-03"}},
		// day 7 >= 5: anchor shifts to the next month
		{NewDate(2024, 1, 7), 3, []MonthKey{"2024-02", "2024-03", "2024-04"}},
		// cutoff day itself shifts
		{NewDate(2024, 3, 5), 1, []MonthKey{"2024-04"}},
		// year rollover
		{NewDate(2024, 11, 20), 4, []MonthKey{"2024-12", "2025-01", "2025-02", "2025-03"}},
		{NewDate(2024, 12, 2), 2, []MonthKey{"2024-12", "2025-01"}},
		{Date{}, 3, nil},
		{NewDate(2024, 1, 3), 0, nil},
	}
	for i, tc := range cases {
		got := DueMonths(tc.date, tc.total)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d DueMonths = %v, want %v", i, got, tc.want)
		}
	}
}

func TestClassify(t *testing.T) {
	due := []MonthKey{"2024-02", "2024-03", "2024-04"}
	cases := []struct {
		paid []MonthKey
		want []bool
	}{
		{nil, []bool{false, false, false}},
		{[]MonthKey{"2024-02"}, []bool{true, false, false}},
		{[]MonthKey{"2024-02", "2024-03"}, []bool{true, true, false}},
		// positional match: a shifted paid list does not count
		{[]MonthKey{"2024-03"}, []bool{false, false, false}},
		{[]MonthKey{"2024-03", "2024-03"}, []bool{false, true, false}},
		// matching by value only would mark 2024-04; position 0 mismatches
		{[]MonthKey{"2024-04"}, []bool{false, false, false}},
	}
	for i, tc := range cases {
		got := Classify(due, tc.paid)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d Classify = %v, want %v", i, got, tc.want)
		}
	}
}

func TestAnchorMonthCutoff(t *testing.T) {
	early := AnchorMonth(NewDate(2024, 6, 4))
	if got := early.Format("2006-01"); got != "2024-06" {
		t.Fatalf("day 4 anchor = %s, want 2024-06", got)
	}
	late := AnchorMonth(NewDate(2024, 6, 5))
	if got := late.Format("2006-01"); got != "2024-07" {
		t.Fatalf("day 5 anchor = %s, want 2024-07", got)
	}
}
