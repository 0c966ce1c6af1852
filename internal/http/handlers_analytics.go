package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"budgeto/internal/charts"
	"budgeto/internal/core"
	"budgeto/internal/engine"
)

func (s *Server) handleHealthReport(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h := engine.FinancialHealth(ts)
	writeJSON(w, http.StatusOK, struct {
		Income             float64 `json:"income"`
		Expense            float64 `json:"expense"`
		SavingsRate        float64 `json:"savings_rate"`
		TopCategory        string  `json:"top_category"`
		TopCategoryAmount  float64 `json:"top_category_amount"`
		AverageTransaction float64 `json:"average_transaction"`
		TransactionCount   int     `json:"transaction_count"`
	}{
		Income:             h.Income.Float(),
		Expense:            h.Expense.Float(),
		SavingsRate:        h.SavingsRate,
		TopCategory:        h.TopCategory.Category,
		TopCategoryAmount:  h.TopCategory.Total.Float(),
		AverageTransaction: h.AverageTransaction.Float(),
		TransactionCount:   h.Count,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	type insightResponse struct {
		Severity string `json:"severity"`
		Title    string `json:"title"`
		Message  string `json:"message"`
	}

	insights := engine.Insights(engine.FinancialHealth(ts))
	out := make([]insightResponse, 0, len(insights))
	for _, in := range insights {
		out = append(out, insightResponse{
			Severity: string(in.Severity),
			Title:    in.Title,
			Message:  in.Message,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	type splitResponse struct {
		Needs   float64 `json:"needs"`
		Wants   float64 `json:"wants"`
		Savings float64 `json:"savings"`
	}
	type recommendationResponse struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Items       []string       `json:"items,omitempty"`
		Split       *splitResponse `json:"split,omitempty"`
	}

	recs := engine.Recommendations(engine.FinancialHealth(ts))
	out := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		resp := recommendationResponse{
			Title:       rec.Title,
			Description: rec.Description,
			Items:       rec.Items,
		}
		if rec.Split != nil {
			resp.Split = &splitResponse{
				Needs:   rec.Split.Needs.Float(),
				Wants:   rec.Split.Wants.Float(),
				Savings: rec.Split.Savings.Float(),
			}
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	type periodResponse struct {
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	cmp := engine.CompareMonths(ts, time.Now())
	writeJSON(w, http.StatusOK, struct {
		Current  periodResponse `json:"current"`
		Previous periodResponse `json:"previous"`
	}{
		Current:  periodResponse{Income: cmp.Current.Income.Float(), Expense: cmp.Current.Expense.Float()},
		Previous: periodResponse{Income: cmp.Previous.Income.Float(), Expense: cmp.Previous.Expense.Float()},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	stats := engine.ComputeBasicStats(ts)
	writeJSON(w, http.StatusOK, struct {
		Average        float64 `json:"average"`
		LargestIncome  float64 `json:"largest_income"`
		LargestExpense float64 `json:"largest_expense"`
	}{
		Average:        stats.Average.Float(),
		LargestIncome:  stats.LargestIncome.Float(),
		LargestExpense: stats.LargestExpense.Float(),
	})
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	totals := engine.CategoryTotals(ts, core.Expense)
	var buf bytes.Buffer
	if err := charts.CategoryPie(&buf, totals); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			writeError(w, http.StatusNotFound, "no expense data to chart")
			return
		}
		slog.ErrorContext(r.Context(), "Chart render error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	servePNG(w, buf.Bytes())
}

func (s *Server) handleBalanceChart(w http.ResponseWriter, r *http.Request) {
	ts, err := s.userTransactions(r, userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.IncomeExpenseBar(&buf, engine.Summarize(ts)); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			writeError(w, http.StatusNotFound, "no transaction data to chart")
			return
		}
		slog.ErrorContext(r.Context(), "Chart render error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	servePNG(w, buf.Bytes())
}

func servePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
