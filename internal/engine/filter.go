// Package engine implements the financial derivation engine: pure,
// stateless computations turning transaction, recurring-rule and goal
// snapshots into the aggregates, filters, projections and advisory
// insights the presentation layer displays.
//
// Every time-sensitive operation takes an explicit now so results are
// deterministic and testable without a clock. No function mutates its
// inputs or retains state between calls.
package engine

import (
	"strings"
	"time"

	"budgeto/internal/core"
)

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

const (
	WindowAll        DateWindow = "all"
	WindowThisMonth  DateWindow = "this-month"
	WindowLastMonth  DateWindow = "last-month"
	WindowLast30Days DateWindow = "30-days"
)

type (
	// TypeFilter selects transactions by type; TypeAll matches everything.
	TypeFilter string

	// DateWindow selects transactions by a calendar window relative to now.
	DateWindow string

	// Filter combines the three transaction predicates; they are ANDed.
	Filter struct {
		Search string
		Type   TypeFilter
		Window DateWindow
	}
)

// FilterTransactions returns the transactions matching all of f's predicates,
// preserving input order. An empty search term matches everything; the search
// is a case-insensitive substring match on description or category.
func FilterTransactions(ts []core.Transaction, f Filter, now time.Time) []core.Transaction {
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(t.Category), term) {
			continue
		}
		if f.Type != "" && f.Type != TypeAll && string(t.Type) != string(f.Type) {
			continue
		}
		if !matchesWindow(t.Date, f.Window, now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesWindow(date time.Time, w DateWindow, now time.Time) bool {
	switch w {
	case WindowThisMonth:
		return date.Month() == now.Month() && date.Year() == now.Year()
	case WindowLastMonth:
		month, year := previousMonth(now)
		return date.Month() == month && date.Year() == year
	case WindowLast30Days:
		return !date.Before(now.AddDate(0, 0, -30))
	default:
		return true
	}
}

// previousMonth returns the calendar month before now's, rolling the year
// back at January.
func previousMonth(now time.Time) (time.Month, int) {
	if now.Month() == time.January {
		return time.December, now.Year() - 1
	}
	return now.Month() - 1, now.Year()
}
