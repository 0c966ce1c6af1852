package engine

import (
	"errors"
	"testing"
	"time"

	"budgeto/internal/core"
)

func goal(target, current int64) core.Goal {
	return core.Goal{
		Name:          "Emergency Fund",
		Category:      "emergency",
		TargetAmount:  core.Money{Cents: target},
		CurrentAmount: core.Money{Cents: current},
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		target  int64
		current int64
		want    float64
	}{
		{name: "zero progress", target: 10000, current: 0, want: 0},
		{name: "halfway", target: 10000, current: 5000, want: 50},
		{name: "complete", target: 10000, current: 10000, want: 100},
		{name: "capped at 100", target: 10000, current: 15000, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(goal(tt.target, tt.current)); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("no deadline", func(t *testing.T) {
		if _, ok := DaysRemaining(nil, now); ok {
			t.Error("expected ok=false for nil deadline")
		}
	})

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{name: "same instant is due today", deadline: now, want: 0},
		{name: "partial day left counts as one", deadline: now.Add(6 * time.Hour), want: 1},
		{name: "ten days out", deadline: now.AddDate(0, 0, 10), want: 10},
		{name: "overdue is negative", deadline: now.AddDate(0, 0, -3), want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DaysRemaining(&tt.deadline, now)
			if !ok {
				t.Fatal("expected ok=true")
			}
			if got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContribute(t *testing.T) {
	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, cents := range []int64{0, -500} {
			if _, err := Contribute(goal(10000, 0), core.Money{Cents: cents}); !errors.Is(err, ErrInvalidContribution) {
				t.Errorf("Contribute(%d) error = %v, want ErrInvalidContribution", cents, err)
			}
		}
	})

	t.Run("adds within the gap", func(t *testing.T) {
		got, err := Contribute(goal(10000, 2000), core.Money{Cents: 3000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.CurrentAmount.Cents != 5000 {
			t.Errorf("CurrentAmount = %d, want 5000", got.CurrentAmount.Cents)
		}
	})

	t.Run("clamps at the target exactly", func(t *testing.T) {
		// 450 + 100 against a 500 target lands on 500, not 550.
		got, err := Contribute(goal(50000, 45000), core.Money{Cents: 10000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.CurrentAmount.Cents != 50000 {
			t.Errorf("CurrentAmount = %d, want exactly 50000", got.CurrentAmount.Cents)
		}
		if p := Progress(got); p != 100 {
			t.Errorf("Progress = %v, want 100", p)
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		g := goal(10000, 1000)
		if _, err := Contribute(g, core.Money{Cents: 500}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.CurrentAmount.Cents != 1000 {
			t.Errorf("input goal mutated: CurrentAmount = %d", g.CurrentAmount.Cents)
		}
	})
}

func TestProgress_MonotonicUnderContributions(t *testing.T) {
	g := goal(100000, 0)
	prev := Progress(g)
	for _, cents := range []int64{1000, 25000, 60000, 40000, 1} {
		var err error
		g, err = Contribute(g, core.Money{Cents: cents})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p := Progress(g)
		if p < prev {
			t.Fatalf("progress decreased: %v -> %v", prev, p)
		}
		if p > 100 {
			t.Fatalf("progress exceeded 100: %v", p)
		}
		prev = p
	}
}

func TestPortfolioProgress(t *testing.T) {
	t.Run("empty portfolio", func(t *testing.T) {
		got := PortfolioProgress(nil)
		if got.Percentage != 0 || got.AchievedCount != 0 {
			t.Errorf("want zero portfolio, got %+v", got)
		}
	})

	t.Run("aggregates across goals", func(t *testing.T) {
		goals := []core.Goal{
			goal(100000, 50000),
			goal(50000, 50000),
			goal(50000, 0),
		}
		got := PortfolioProgress(goals)
		if got.TotalSaved.Cents != 100000 {
			t.Errorf("TotalSaved = %d, want 100000", got.TotalSaved.Cents)
		}
		if got.TotalTarget.Cents != 200000 {
			t.Errorf("TotalTarget = %d, want 200000", got.TotalTarget.Cents)
		}
		if got.Percentage != 50 {
			t.Errorf("Percentage = %v, want 50", got.Percentage)
		}
		if got.AchievedCount != 1 {
			t.Errorf("AchievedCount = %d, want 1", got.AchievedCount)
		}
	})
}
