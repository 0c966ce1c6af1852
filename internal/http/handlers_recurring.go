package http

import (
	"encoding/json"
	"net/http"
	"time"

	"budgeto/internal/core"
	"budgeto/internal/engine"
)

type ruleRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Frequency   string      `json:"frequency"`
	StartDate   string      `json:"start_date"`
	IsActive    *bool       `json:"is_active"`
}

type ruleResponse struct {
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	Type           string  `json:"type"`
	Category       string  `json:"category"`
	Frequency      string  `json:"frequency"`
	StartDate      string  `json:"start_date"`
	IsActive       bool    `json:"is_active"`
	NextOccurrence string  `json:"next_occurrence"`
}

func toRuleResponse(rule core.RecurringRule, now time.Time) ruleResponse {
	return ruleResponse{
		ID:             rule.ID,
		Description:    rule.Description,
		Amount:         rule.Amount.Float(),
		Type:           string(rule.Type),
		Category:       rule.Category,
		Frequency:      string(rule.Frequency),
		StartDate:      rule.StartDate.Format(dateLayout),
		IsActive:       rule.IsActive,
		NextOccurrence: engine.NextOccurrence(rule, now).Format(dateLayout),
	}
}

func (s *Server) ruleFromRequest(w http.ResponseWriter, r *http.Request) (core.RecurringRule, bool) {
	var req ruleRequest
	if !decodeJSON(w, r, &req) {
		return core.RecurringRule{}, false
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.RecurringRule{}, false
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.RecurringRule{}, false
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	rule := core.RecurringRule{
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Type:        core.TransactionType(req.Type),
		Category:    sanitizeInput(req.Category),
		Frequency:   core.Frequency(req.Frequency),
		StartDate:   start,
		IsActive:    active,
	}
	if err := rule.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.RecurringRule{}, false
	}
	return rule, true
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.ListRules(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	now := time.Now()
	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toRuleResponse(rule, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.ruleFromRequest(w, r)
	if !ok {
		return
	}

	saved, err := s.store.CreateRule(r.Context(), userID(r), rule)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRuleResponse(saved, time.Now()))
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.ruleFromRequest(w, r)
	if !ok {
		return
	}
	rule.ID = r.PathValue("id")

	if err := s.store.UpdateRule(r.Context(), userID(r), rule); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRuleResponse(rule, time.Now()))
}

func (s *Server) handleToggleRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rules, err := s.store.ListRules(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	for _, rule := range rules {
		if rule.ID != id {
			continue
		}
		if err := s.store.SetRuleActive(r.Context(), userID(r), id, !rule.IsActive); err != nil {
			writeStoreError(w, err)
			return
		}
		rule.IsActive = !rule.IsActive
		writeJSON(w, http.StatusOK, toRuleResponse(rule, time.Now()))
		return
	}
	writeError(w, http.StatusNotFound, "record not found")
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRule(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecurringTotals(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.ListRules(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	totals := engine.MonthlyRecurringTotals(rules)
	writeJSON(w, http.StatusOK, struct {
		MonthlyIncome  float64 `json:"monthly_income"`
		MonthlyExpense float64 `json:"monthly_expense"`
		MonthlyNet     float64 `json:"monthly_net"`
	}{
		MonthlyIncome:  totals.Income.Float(),
		MonthlyExpense: totals.Expense.Float(),
		MonthlyNet:     totals.Net.Float(),
	})
}
