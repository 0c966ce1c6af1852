package engine

import (
	"fmt"

	"budgeto/internal/core"
)

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// TopCategoryNone is the sentinel category when a snapshot has no expenses.
const TopCategoryNone = "None"

type (
	Severity string

	// Health is the derived financial health overview for a snapshot.
	Health struct {
		Income             core.Money
		Expense            core.Money
		SavingsRate        float64
		TopCategory        CategoryTotal
		AverageTransaction core.Money
		Count              int
	}

	// Insight is a single advisory finding about a health overview.
	Insight struct {
		Severity Severity
		Title    string
		Message  string
	}

	// BudgetSplit is the 50/30/20 partition of income. Amounts are numeric;
	// rendering them with a currency symbol is a presentation concern.
	BudgetSplit struct {
		Needs   core.Money
		Wants   core.Money
		Savings core.Money
	}

	// Recommendation is one piece of budget guidance. Split is set only on
	// the budget-rule recommendation; tip recommendations carry Items.
	Recommendation struct {
		Title       string
		Description string
		Items       []string
		Split       *BudgetSplit
	}
)

// FinancialHealth derives the health overview from a transaction snapshot.
// The savings rate is floored at zero when there is no income: a user with
// no recorded income is never shown NaN or negative infinity.
func FinancialHealth(ts []core.Transaction) Health {
	s := Summarize(ts)

	h := Health{
		Income:  s.TotalIncome,
		Expense: s.TotalExpense,
		Count:   s.Count,
	}
	if s.TotalIncome.Cents > 0 {
		h.SavingsRate = float64(s.TotalIncome.Cents-s.TotalExpense.Cents) /
			float64(s.TotalIncome.Cents) * 100
	}
	if s.Count > 0 {
		h.AverageTransaction = core.Money{
			Cents: (s.TotalIncome.Cents + s.TotalExpense.Cents) / int64(s.Count),
		}
	}

	h.TopCategory = CategoryTotal{Category: TopCategoryNone}
	if ranked := CategoryTotals(ts, core.Expense); len(ranked) > 0 {
		h.TopCategory = ranked[0]
	}
	return h
}

// Insights evaluates the advisory rules against a health overview in fixed
// order. Each rule emits at most one insight; the list may be shorter than
// the rule count, never longer.
func Insights(h Health) []Insight {
	var out []Insight

	switch {
	case h.SavingsRate < 10:
		out = append(out, Insight{
			Severity: SeverityWarning,
			Title:    "Low Savings Rate",
			Message: fmt.Sprintf("Your savings rate is %.1f%%. Financial experts recommend saving at least 20%% of your income.",
				h.SavingsRate),
		})
	case h.SavingsRate >= 20:
		out = append(out, Insight{
			Severity: SeveritySuccess,
			Title:    "Excellent Savings!",
			Message: fmt.Sprintf("You're saving %.1f%% of your income. Keep up the great work!",
				h.SavingsRate),
		})
	default:
		out = append(out, Insight{
			Severity: SeverityInfo,
			Title:    "Good Savings Progress",
			Message: fmt.Sprintf("You're saving %.1f%% of your income. Try to increase this to 20%% for better financial health.",
				h.SavingsRate),
		})
	}

	if h.TopCategory.Category != TopCategoryNone && h.Expense.Cents > 0 {
		share := float64(h.TopCategory.Total.Cents) / float64(h.Expense.Cents) * 100
		if share > 40 {
			out = append(out, Insight{
				Severity: SeverityWarning,
				Title:    "High Category Spending",
				Message: fmt.Sprintf("%s accounts for %.1f%% of your expenses. Consider finding ways to reduce spending in this category.",
					h.TopCategory.Category, share),
			})
		}
	}

	return out
}

// generalTips is fixed guidance included in every recommendation list.
var generalTips = []string{
	"Track all expenses to identify spending patterns",
	"Set up automatic transfers to savings account",
	"Review subscriptions and cancel unused services",
	"Cook at home more often instead of dining out",
	"Use the 24-hour rule for non-essential purchases",
	"Compare prices before making big purchases",
	"Build an emergency fund (3-6 months of expenses)",
}

// categoryTips maps known expense categories to targeted advice. Categories
// outside this table simply receive no category-specific recommendation.
var categoryTips = map[string][]string{
	"Food": {
		"Plan meals weekly",
		"Buy in bulk",
		"Use coupons and cashback apps",
		"Reduce food waste",
	},
	"Transport": {
		"Use public transportation",
		"Carpool when possible",
		"Maintain vehicle regularly",
		"Consider fuel-efficient options",
	},
	"Shopping": {
		"Create shopping lists",
		"Wait for sales",
		"Avoid impulse purchases",
		"Use price comparison tools",
	},
	"Entertainment": {
		"Look for free events",
		"Use streaming services wisely",
		"Take advantage of student/senior discounts",
		"Host game nights at home",
	},
	"Utilities": {
		"Use energy-efficient appliances",
		"Turn off lights when not needed",
		"Adjust thermostat settings",
		"Fix water leaks promptly",
	},
}

// Recommendations builds the ordered guidance list for a health overview:
// the 50/30/20 split of income (all zeros when income is zero), the general
// money-saving tips, and, when the top expense category has a known tip set,
// category-specific advice.
func Recommendations(h Health) []Recommendation {
	split := BudgetSplit{
		Needs:   core.Money{Cents: h.Income.Cents * 50 / 100},
		Wants:   core.Money{Cents: h.Income.Cents * 30 / 100},
		Savings: core.Money{Cents: h.Income.Cents * 20 / 100},
	}

	out := []Recommendation{
		{
			Title:       "50/30/20 Budget Rule",
			Description: "A popular budgeting method: 50% for needs, 30% for wants, 20% for savings",
			Split:       &split,
		},
		{
			Title:       "Money-Saving Tips",
			Description: "Practical strategies to reduce expenses and increase savings",
			Items:       generalTips,
		},
	}

	if tips, ok := categoryTips[h.TopCategory.Category]; ok {
		out = append(out, Recommendation{
			Title:       h.TopCategory.Category + " Savings Tips",
			Description: "Reduce spending in your top expense category: " + h.TopCategory.Category,
			Items:       tips,
		})
	}

	return out
}
