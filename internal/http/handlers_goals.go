package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"budgeto/internal/core"
	"budgeto/internal/engine"
)

type goalRequest struct {
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	TargetAmount json.Number `json:"target_amount"`
	Deadline     string      `json:"deadline"`
}

type goalResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Progress      float64 `json:"progress"`
	Deadline      *string `json:"deadline"`
	DaysRemaining *int    `json:"days_remaining"`
}

func toGoalResponse(g core.Goal, now time.Time) goalResponse {
	resp := goalResponse{
		ID:            g.ID,
		Name:          g.Name,
		Category:      g.Category,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount.Float(),
		CurrentAmount: g.CurrentAmount.Float(),
		Progress:      engine.Progress(g),
	}
	if g.Deadline != nil {
		d := g.Deadline.Format(dateLayout)
		resp.Deadline = &d
	}
	if days, ok := engine.DaysRemaining(g.Deadline, now); ok {
		resp.DaysRemaining = &days
	}
	return resp
}

func (s *Server) goalFromRequest(w http.ResponseWriter, r *http.Request) (core.Goal, bool) {
	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return core.Goal{}, false
	}

	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Goal{}, false
	}

	g := core.Goal{
		Name:         sanitizeInput(req.Name),
		Category:     sanitizeInput(req.Category),
		Description:  sanitizeInput(req.Description),
		TargetAmount: target,
	}
	if req.Deadline != "" {
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return core.Goal{}, false
		}
		g.Deadline = &deadline
	}
	if err := g.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Goal{}, false
	}
	return g, true
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	now := time.Now()
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.goalFromRequest(w, r)
	if !ok {
		return
	}

	saved, err := s.store.CreateGoal(r.Context(), userID(r), g)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(saved, time.Now()))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.goalFromRequest(w, r)
	if !ok {
		return
	}
	g.ID = r.PathValue("id")

	existing, err := s.store.GetGoal(r.Context(), userID(r), g.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	g.CurrentAmount = existing.CurrentAmount

	if err := s.store.UpdateGoal(r.Context(), userID(r), g); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(g, time.Now()))
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount json.Number `json:"amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	g, err := s.store.GetGoal(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	updated, err := engine.Contribute(g, amount)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidContribution) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.store.SetGoalCurrent(r.Context(), userID(r), updated.ID, updated.CurrentAmount); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(updated, time.Now()))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteGoal(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	p := engine.PortfolioProgress(goals)
	writeJSON(w, http.StatusOK, struct {
		TotalSaved    float64 `json:"total_saved"`
		TotalTarget   float64 `json:"total_target"`
		Percentage    float64 `json:"percentage"`
		AchievedCount int     `json:"achieved_count"`
		GoalCount     int     `json:"goal_count"`
	}{
		TotalSaved:    p.TotalSaved.Float(),
		TotalTarget:   p.TotalTarget.Float(),
		Percentage:    p.Percentage,
		AchievedCount: p.AchievedCount,
		GoalCount:     len(goals),
	})
}
