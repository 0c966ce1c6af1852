package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgeto/internal/core"
)

// MemoryStore is an in-memory implementation of the repository surface. It
// backs handler tests and local development without a database file.
type MemoryStore struct {
	mu           sync.Mutex
	users        []User
	transactions map[string][]core.Transaction
	rules        map[string][]core.RecurringRule
	goals        map[string][]core.Goal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: map[string][]core.Transaction{},
		rules:        map[string][]core.RecurringRule{},
		goals:        map[string][]core.Goal{},
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return User{}, ErrUsernameTaken
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	if u.Currency == "" {
		u.Currency = "USD"
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) UpdateUserProfile(_ context.Context, id, email, currency string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Email = email
			s.users[i].Currency = currency
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateTransaction(_ context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	s.transactions[userID] = append(s.transactions[userID], t)
	return t, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions[userID]...), nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions[userID] {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, userID string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.transactions[userID]
	for i := range ts {
		if ts[i].ID == t.ID {
			ts[i] = t
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.transactions[userID]
	for i := range ts {
		if ts[i].ID == id {
			s.transactions[userID] = append(ts[:i:i], ts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateRule(_ context.Context, userID string, rule core.RecurringRule) (core.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule.ID = uuid.NewString()
	s.rules[userID] = append(s.rules[userID], rule)
	return rule, nil
}

func (s *MemoryStore) ListRules(_ context.Context, userID string) ([]core.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RecurringRule(nil), s.rules[userID]...), nil
}

func (s *MemoryStore) UpdateRule(_ context.Context, userID string, rule core.RecurringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := s.rules[userID]
	for i := range rules {
		if rules[i].ID == rule.ID {
			rules[i] = rule
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) SetRuleActive(_ context.Context, userID, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := s.rules[userID]
	for i := range rules {
		if rules[i].ID == id {
			rules[i].IsActive = active
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteRule(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := s.rules[userID]
	for i := range rules {
		if rules[i].ID == id {
			s.rules[userID] = append(rules[:i:i], rules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateGoal(_ context.Context, userID string, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = uuid.NewString()
	s.goals[userID] = append(s.goals[userID], g)
	return g, nil
}

func (s *MemoryStore) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals[userID]...), nil
}

func (s *MemoryStore) GetGoal(_ context.Context, userID, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals[userID] {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, ErrNotFound
}

func (s *MemoryStore) UpdateGoal(_ context.Context, userID string, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[userID]
	for i := range goals {
		if goals[i].ID == g.ID {
			goals[i] = g
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) SetGoalCurrent(_ context.Context, userID, id string, current core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[userID]
	for i := range goals {
		if goals[i].ID == id {
			goals[i].CurrentAmount = current
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[userID]
	for i := range goals {
		if goals[i].ID == id {
			s.goals[userID] = append(goals[:i:i], goals[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Seed inserts a user directly, for tests that need a known account.
func (s *MemoryStore) Seed(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = fmt.Sprintf("seed-%d", len(s.users)+1)
	}
	s.users = append(s.users, u)
	return u
}
