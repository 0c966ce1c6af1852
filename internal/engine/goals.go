package engine

import (
	"errors"
	"math"
	"time"

	"budgeto/internal/core"
)

// ErrInvalidContribution is returned by Contribute for non-positive amounts.
// Callers must surface it and re-prompt; no state changes on this error.
var ErrInvalidContribution = errors.New("contribution amount must be positive")

// Portfolio aggregates progress across all goals.
type Portfolio struct {
	TotalSaved    core.Money
	TotalTarget   core.Money
	Percentage    float64
	AchievedCount int
}

// Progress returns a goal's completion percentage, capped at 100. Target
// amounts are strictly positive by the entity invariant, so the division is
// always defined.
func Progress(g core.Goal) float64 {
	pct := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	return math.Min(pct, 100)
}

// DaysRemaining counts signed calendar days between now and an optional
/// deadline; ok is false when there is no deadline. Ceiling semantics: any
// partial day left counts as one day, 0 means due today, negative is overdue.
func DaysRemaining(deadline *time.Time, now time.Time) (days int, ok bool) {
	if deadline == nil {
		return 0, false
	}
	diff := deadline.Sub(now)
	return int(math.Ceil(diff.Hours() / 24)), true
}

// Contribute applies a positive contribution to a goal, clamping the new
// current amount to the target so it never overshoots. The returned goal is
// a new value; the input is untouched. Observing the achievement transition
// (progress crossing 100) is the caller's concern.
func Contribute(g core.Goal, amount core.Money) (core.Goal, error) {
	if amount.Cents <= 0 {
		return core.Goal{}, ErrInvalidContribution
	}
	updated := g
	updated.CurrentAmount = core.Money{
		Cents: min(g.CurrentAmount.Cents+amount.Cents, g.TargetAmount.Cents),
	}
	return updated, nil
}

// PortfolioProgress sums saved and target amounts across all goals. A zero
// total target yields a zero percentage, not an error; achieved goals are
// those at or past their target.
func PortfolioProgress(goals []core.Goal) Portfolio {
	var p Portfolio
	for _, g := range goals {
		p.TotalSaved.Cents += g.CurrentAmount.Cents
		p.TotalTarget.Cents += g.TargetAmount.Cents
		if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
			p.AchievedCount++
		}
	}
	if p.TotalTarget.Cents > 0 {
		p.Percentage = float64(p.TotalSaved.Cents) / float64(p.TotalTarget.Cents) * 100
	}
	return p
}
