package charts

import (
	"bytes"
	"errors"
	"testing"

	"budgeto/internal/core"
	"budgeto/internal/engine"
)

func TestCategoryPie(t *testing.T) {
	totals := []engine.CategoryTotal{
		{Category: "Food", Total: core.Money{Cents: 45000}},
		{Category: "Transport", Total: core.Money{Cents: 12000}},
	}

	var buf bytes.Buffer
	if err := CategoryPie(&buf, totals); err != nil {
		t.Fatalf("CategoryPie() error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("CategoryPie() wrote no bytes")
	}
	// PNG signature
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryPie_NoData(t *testing.T) {
	var buf bytes.Buffer
	if err := CategoryPie(&buf, nil); !errors.Is(err, ErrNoData) {
		t.Errorf("CategoryPie(nil) = %v, want ErrNoData", err)
	}
	if err := CategoryPie(&buf, []engine.CategoryTotal{{Category: "Food"}}); !errors.Is(err, ErrNoData) {
		t.Errorf("CategoryPie with zero totals = %v, want ErrNoData", err)
	}
}

func TestIncomeExpenseBar(t *testing.T) {
	var buf bytes.Buffer
	s := engine.Summary{
		TotalIncome:  core.Money{Cents: 500000},
		TotalExpense: core.Money{Cents: 320000},
	}
	if err := IncomeExpenseBar(&buf, s); err != nil {
		t.Fatalf("IncomeExpenseBar() error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestIncomeExpenseBar_NoData(t *testing.T) {
	var buf bytes.Buffer
	if err := IncomeExpenseBar(&buf, engine.Summary{}); !errors.Is(err, ErrNoData) {
		t.Errorf("IncomeExpenseBar(zero) = %v, want ErrNoData", err)
	}
}
