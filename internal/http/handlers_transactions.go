package http

import (
	"encoding/json"
	"net/http"
	"time"

	"budgeto/internal/core"
	"budgeto/internal/engine"
)

type transactionRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

type transactionResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.Float(),
		Type:        string(t.Type),
		Category:    t.Category,
		Date:        t.Date.Format(dateLayout),
	}
}

func (s *Server) transactionFromRequest(w http.ResponseWriter, r *http.Request) (core.Transaction, bool) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return core.Transaction{}, false
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Transaction{}, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Transaction{}, false
	}

	t := core.Transaction{
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Type:        core.TransactionType(req.Type),
		Category:    sanitizeInput(req.Category),
		Date:        date,
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Transaction{}, false
	}
	return t, true
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	q := r.URL.Query()
	filter := engine.Filter{
		Search: q.Get("search"),
		Type:   engine.TypeFilter(q.Get("type")),
		Window: engine.DateWindow(q.Get("window")),
	}
	ts = engine.FilterTransactions(ts, filter, time.Now())

	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.transactionFromRequest(w, r)
	if !ok {
		return
	}

	saved, err := s.store.CreateTransaction(r.Context(), userID(r), t)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateUser(userID(r))
	s.publishSync(r, saved.ID, 1)

	writeJSON(w, http.StatusCreated, toTransactionResponse(saved))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTransaction(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.transactionFromRequest(w, r)
	if !ok {
		return
	}
	t.ID = r.PathValue("id")

	if err := s.store.UpdateTransaction(r.Context(), userID(r), t); err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateUser(userID(r))
	s.publishSync(r, t.ID, 0)

	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTransaction(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	s.invalidateUser(userID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	sum := engine.Summarize(ts)
	writeJSON(w, http.StatusOK, struct {
		TotalIncome   float64 `json:"total_income"`
		TotalExpenses float64 `json:"total_expenses"`
		Balance       float64 `json:"balance"`
	}{
		TotalIncome:   sum.TotalIncome.Float(),
		TotalExpenses: sum.TotalExpense.Float(),
		Balance:       sum.Balance.Float(),
	})
}
