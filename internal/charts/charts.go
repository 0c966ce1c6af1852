// Package charts renders spending breakdowns as PNG images.
package charts

import (
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"budgeto/internal/engine"
)

var ErrNoData = errors.New("no data to chart")

// CategoryPie renders expense totals by category as a pie chart.
func CategoryPie(w io.Writer, totals []engine.CategoryTotal) error {
	var values []chart.Value
	for _, ct := range totals {
		if ct.Total.Cents <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: ct.Category,
			Value: ct.Total.Float(),
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Width:  512,
		Height: 512,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

// IncomeExpenseBar renders income against expense for one summary.
func IncomeExpenseBar(w io.Writer, s engine.Summary) error {
	if s.TotalIncome.Cents == 0 && s.TotalExpense.Cents == 0 {
		return ErrNoData
	}

	bar := chart.BarChart{
		Width:    512,
		Height:   512,
		BarWidth: 80,
		Bars: []chart.Value{
			{Label: "Income", Value: s.TotalIncome.Float()},
			{Label: "Expense", Value: s.TotalExpense.Float()},
		},
	}
	return bar.Render(chart.PNG, w)
}
