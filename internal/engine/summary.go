package engine

import (
	"sort"
	"time"

	"budgeto/internal/core"
)

type (
	// Summary is the headline aggregate over a transaction snapshot.
	Summary struct {
		TotalIncome  core.Money
		TotalExpense core.Money
		Balance      core.Money
		Count        int
	}

	// CategoryTotal is an amount aggregated by category name.
	CategoryTotal struct {
		Category string
		Total    core.Money
	}

	// PeriodTotals holds income and expense sums for one calendar month.
	PeriodTotals struct {
		Income  core.Money
		Expense core.Money
	}

	// MonthlyComparison pairs the current calendar month with the previous one.
	MonthlyComparison struct {
		Current  PeriodTotals
		Previous PeriodTotals
	}

	// BasicStats holds simple distribution statistics over a snapshot.
	BasicStats struct {
		Average        core.Money
		LargestIncome  core.Money
		LargestExpense core.Money
	}
)

// Summarize totals a transaction snapshot. An empty snapshot yields the
// zero Summary, never an error: a brand-new account sees well-formed zeros.
func Summarize(ts []core.Transaction) Summary {
	s := Summary{Count: len(ts)}
	for _, t := range ts {
		switch t.Type {
		case core.Income:
			s.TotalIncome.Cents += t.Amount.Cents
		case core.Expense:
			s.TotalExpense.Cents += t.Amount.Cents
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// CategoryTotals ranks per-category sums of the given type, descending by
// total. Ties keep first-encountered order; "top category" consumers rely
// on that stability.
func CategoryTotals(ts []core.Transaction, typ core.TransactionType) []CategoryTotal {
	sums := make(map[string]int64)
	var order []string
	for _, t := range ts {
		if t.Type != typ {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount.Cents
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryTotal{Category: name, Total: core.Money{Cents: sums[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}

// CompareMonths buckets transactions into the current calendar month and the
// immediately preceding one (year rolls back at January) and sums each bucket
// by type. Transactions outside both buckets are ignored.
func CompareMonths(ts []core.Transaction, now time.Time) MonthlyComparison {
	prevMonth, prevYear := previousMonth(now)

	var cmp MonthlyComparison
	for _, t := range ts {
		var bucket *PeriodTotals
		switch {
		case t.Date.Month() == now.Month() && t.Date.Year() == now.Year():
			bucket = &cmp.Current
		case t.Date.Month() == prevMonth && t.Date.Year() == prevYear:
			bucket = &cmp.Previous
		default:
			continue
		}
		switch t.Type {
		case core.Income:
			bucket.Income.Cents += t.Amount.Cents
		case core.Expense:
			bucket.Expense.Cents += t.Amount.Cents
		}
	}
	return cmp
}

// ComputeBasicStats returns the average amount over all transactions
// regardless of type, and the largest income and expense. Empty subsets
// yield zeros; "no income yet" is a normal state, not an error.
func ComputeBasicStats(ts []core.Transaction) BasicStats {
	var stats BasicStats
	if len(ts) == 0 {
		return stats
	}

	var total int64
	for _, t := range ts {
		total += t.Amount.Cents
		switch t.Type {
		case core.Income:
			if t.Amount.Cents > stats.LargestIncome.Cents {
				stats.LargestIncome = t.Amount
			}
		case core.Expense:
			if t.Amount.Cents > stats.LargestExpense.Cents {
				stats.LargestExpense = t.Amount
			}
		}
	}
	stats.Average = core.Money{Cents: total / int64(len(ts))}
	return stats
}
