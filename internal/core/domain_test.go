package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		Description: "Groceries",
		Amount:      Money{Cents: 4500},
		Type:        Expense,
		Category:    "Food",
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "empty description", mutate: func(tx *Transaction) { tx.Description = "   " }, wantErr: ErrEmptyDescription},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = Money{} }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount.Cents = -100 }, wantErr: ErrInvalidAmount},
		{name: "bad type", mutate: func(tx *Transaction) { tx.Type = "transfer" }, wantErr: ErrInvalidType},
		{name: "empty category", mutate: func(tx *Transaction) { tx.Category = "" }, wantErr: ErrEmptyCategory},
		{name: "zero date", mutate: func(tx *Transaction) { tx.Date = time.Time{} }, wantErr: ErrZeroDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("description too long", func(t *testing.T) {
		tx := validTransaction()
		tx.Description = strings.Repeat("x", 201)
		if err := tx.Validate(); err == nil {
			t.Error("expected error for 201-char description")
		}
	})
}

func TestRecurringRuleValidate(t *testing.T) {
	valid := RecurringRule{
		Description: "Rent",
		Amount:      Money{Cents: 120000},
		Type:        Expense,
		Category:    "Housing",
		Frequency:   Monthly,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	r := valid
	r.Frequency = "fortnightly"
	if err := r.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("Validate() = %v, want ErrInvalidFrequency", err)
	}

	r = valid
	r.StartDate = time.Time{}
	if err := r.Validate(); !errors.Is(err, ErrZeroDate) {
		t.Errorf("Validate() = %v, want ErrZeroDate", err)
	}
}

func TestGoalValidate(t *testing.T) {
	valid := Goal{
		Name:         "New Laptop",
		Category:     "purchase",
		TargetAmount: Money{Cents: 150000},
	}

	tests := []struct {
		name    string
		mutate  func(*Goal)
		wantErr error
	}{
		{name: "valid", mutate: func(*Goal) {}},
		{name: "empty name", mutate: func(g *Goal) { g.Name = "" }, wantErr: ErrEmptyName},
		{name: "zero target", mutate: func(g *Goal) { g.TargetAmount = Money{} }, wantErr: ErrInvalidTarget},
		{name: "negative current", mutate: func(g *Goal) { g.CurrentAmount.Cents = -1 }, wantErr: ErrNegativeCurrent},
		{name: "unknown category", mutate: func(g *Goal) { g.Category = "misc" }, wantErr: ErrInvalidGoalCat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			err := g.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidGoalCategory(t *testing.T) {
	for _, c := range GoalCategories {
		if !IsValidGoalCategory(c) {
			t.Errorf("IsValidGoalCategory(%q) = false, want true", c)
		}
	}
	if IsValidGoalCategory("Emergency") {
		t.Error("category matching is case-sensitive, got true for capitalized input")
	}
}
