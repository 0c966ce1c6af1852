package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	TransactionType string

	Frequency string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense event. IDs are
	// assigned by storage; derivations only ever read these.
	Transaction struct {
		ID          string
		Description string
		Amount      Money
		Type        TransactionType
		Category    string
		Date        time.Time
	}

	// RecurringRule describes a transaction template repeating on a fixed
	// cadence. It never auto-posts transactions; it exists for projection.
	RecurringRule struct {
		ID          string
		Description string
		Amount      Money
		Type        TransactionType
		Category    string
		Frequency   Frequency
		StartDate   time.Time
		IsActive    bool
	}

	// Goal is a named savings target with optional deadline.
	Goal struct {
		ID            string
		Name          string
		Category      string
		Description   string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      *time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidTarget    = errors.New("target amount must be positive")
	ErrNegativeCurrent  = errors.New("current amount cannot be negative")
	ErrInvalidGoalCat   = errors.New("invalid goal category")
)

// GoalCategories is the fixed set of goal categories; "other" is the catch-all.
var GoalCategories = []string{
	"emergency", "vacation", "purchase", "education",
	"retirement", "investment", "debt", "other",
}

// IsValidGoalCategory reports whether c is one of the enumerated goal categories.
func IsValidGoalCategory(c string) bool {
	for _, v := range GoalCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (f Frequency) Validate() error {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (r RecurringRule) Validate() error {
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if r.StartDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if len(g.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrNegativeCurrent
	}
	if !IsValidGoalCategory(g.Category) {
		return ErrInvalidGoalCat
	}
	return nil
}
