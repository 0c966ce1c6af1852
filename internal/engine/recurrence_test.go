package engine

import (
	"testing"
	"time"

	"budgeto/internal/core"
)

func rule(freq core.Frequency, start time.Time, typ core.TransactionType, cents int64, active bool) core.RecurringRule {
	return core.RecurringRule{
		Description: "rule",
		Amount:      core.Money{Cents: cents},
		Type:        typ,
		Category:    "General",
		Frequency:   freq,
		StartDate:   start,
		IsActive:    active,
	}
}

func TestNextOccurrence(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		freq core.Frequency
		now  time.Time
		want time.Time
	}{
		{
			name: "daily is tomorrow",
			freq: core.Daily,
			now:  time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2024, 6, 16, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "weekly is seven days out regardless of start date",
			freq: core.Weekly,
			now:  time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2024, 6, 22, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "monthly targets start day in next month",
			freq: core.Monthly,
			now:  time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monthly rolls year over in December",
			freq: core.Monthly,
			now:  time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "yearly keeps month and day in next year",
			freq: core.Yearly,
			now:  time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "unknown frequency falls back to now",
			freq: core.Frequency("fortnightly"),
			now:  time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(rule(tt.freq, start, core.Expense, 100, true), tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_MonthEndClamping(t *testing.T) {
	// Day-of-month 31 projected into shorter months clamps to the month's
	// last valid day instead of rolling into the following month.
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "day 31 from mid January clamps to Feb 29 in a leap year",
			now:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day 31 from mid January clamps to Feb 28 otherwise",
			now:  time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day 31 from mid February lands in March untouched",
			now:  time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day 31 from mid March clamps to April 30",
			now:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(rule(core.Monthly, start, core.Expense, 100, true), tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_YearlyLeapDayClamping(t *testing.T) {
	start := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got := NextOccurrence(rule(core.Yearly, start, core.Expense, 100, true), now)
	want := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextOccurrence() = %v, want %v", got, want)
	}
}

func TestMonthlyRecurringTotals(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		rules       []core.RecurringRule
		wantIncome  int64
		wantExpense int64
		wantNet     int64
	}{
		{
			name: "empty rules yield zeros",
		},
		{
			name: "inactive rules excluded",
			rules: []core.RecurringRule{
				rule(core.Monthly, start, core.Expense, 120000, true),
				rule(core.Monthly, start, core.Income, 300000, false),
			},
			wantIncome:  0,
			wantExpense: 120000,
			wantNet:     -120000,
		},
		{
			name: "non-monthly frequencies excluded without normalization",
			rules: []core.RecurringRule{
				rule(core.Daily, start, core.Expense, 500, true),
				rule(core.Weekly, start, core.Expense, 2000, true),
				rule(core.Yearly, start, core.Income, 50000, true),
				rule(core.Monthly, start, core.Income, 250000, true),
			},
			wantIncome:  250000,
			wantExpense: 0,
			wantNet:     250000,
		},
		{
			name: "active monthly rules summed by type",
			rules: []core.RecurringRule{
				rule(core.Monthly, start, core.Income, 300000, true),
				rule(core.Monthly, start, core.Expense, 120000, true),
				rule(core.Monthly, start, core.Expense, 4500, true),
			},
			wantIncome:  300000,
			wantExpense: 124500,
			wantNet:     175500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyRecurringTotals(tt.rules)
			if got.Income.Cents != tt.wantIncome {
				t.Errorf("Income = %d, want %d", got.Income.Cents, tt.wantIncome)
			}
			if got.Expense.Cents != tt.wantExpense {
				t.Errorf("Expense = %d, want %d", got.Expense.Cents, tt.wantExpense)
			}
			if got.Net.Cents != tt.wantNet {
				t.Errorf("Net = %d, want %d", got.Net.Cents, tt.wantNet)
			}
		})
	}
}
