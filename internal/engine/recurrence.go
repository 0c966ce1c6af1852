package engine

import (
	"time"

	"budgeto/internal/core"
)

// RecurringTotals is the monthly-equivalent cash-flow projection over a rule
// snapshot. Only rules that are both active and directly monthly contribute;
// daily, weekly and yearly rules are not normalized into a monthly figure.
type RecurringTotals struct {
	Income  core.Money
	Expense core.Money
	Net     core.Money
}

// NextOccurrence predicts the next date a rule would fire, for display only.
// It never mutates the rule and never posts anything.
//
// Monthly rules target the start date's day-of-month in the month after now;
// when that day exceeds the target month's length the date is clamped to the
// month's last day (Jan 31 projected from mid January lands on Feb 29 in a
// leap year, not Mar 2). Yearly rules clamp the same way. An unknown
// frequency returns now unchanged as a safe fallback.
func NextOccurrence(rule core.RecurringRule, now time.Time) time.Time {
	switch rule.Frequency {
	case core.Daily:
		return now.AddDate(0, 0, 1)
	case core.Weekly:
		return now.AddDate(0, 0, 7)
	case core.Monthly:
		month, year := nextMonth(now)
		return clampedDate(year, month, rule.StartDate.Day())
	case core.Yearly:
		return clampedDate(now.Year()+1, rule.StartDate.Month(), rule.StartDate.Day())
	default:
		return now
	}
}

// MonthlyRecurringTotals sums active monthly rules by type. Inactive rules
// and non-monthly frequencies are excluded entirely.
func MonthlyRecurringTotals(rules []core.RecurringRule) RecurringTotals {
	var totals RecurringTotals
	for _, r := range rules {
		if !r.IsActive || r.Frequency != core.Monthly {
			continue
		}
		switch r.Type {
		case core.Income:
			totals.Income.Cents += r.Amount.Cents
		case core.Expense:
			totals.Expense.Cents += r.Amount.Cents
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals
}

func nextMonth(now time.Time) (time.Month, int) {
	if now.Month() == time.December {
		return time.January, now.Year() + 1
	}
	return now.Month() + 1, now.Year()
}

// clampedDate builds a date at midnight UTC, pulling an out-of-range day back
// to the last valid day of the month instead of rolling into the next month.
func clampedDate(year int, month time.Month, day int) time.Time {
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
