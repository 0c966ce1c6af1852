package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"budgeto/internal/auth"
	"budgeto/internal/core"
	"budgeto/internal/storage"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
	Symbol   string `json:"currency_symbol"`
}

func toUserResponse(u storage.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Currency: u.Currency,
		Symbol:   core.LookupCurrency(u.Currency).Symbol,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Currency string `json:"currency"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = sanitizeInput(req.Username)
	if len(req.Username) < 3 {
		writeError(w, http.StatusUnprocessableEntity, "username must be at least 3 characters")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	u, err := s.store.CreateUser(r.Context(), storage.User{
		Username:     req.Username,
		Email:        sanitizeInput(req.Email),
		PasswordHash: hash,
		Currency:     core.LookupCurrency(req.Currency).Code,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	token, err := s.tokens.Issue(u.ID, u.Username, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}{Token: token, User: toUserResponse(u)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.store.GetUserByUsername(r.Context(), sanitizeInput(req.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeStoreError(w, err)
		return
	}

	if err := auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Issue(u.ID, u.Username, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}{Token: token, User: toUserResponse(u)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.GetUserByID(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Currency string `json:"currency"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	currency := core.LookupCurrency(req.Currency).Code
	if err := s.store.UpdateUserProfile(r.Context(), userID(r), sanitizeInput(req.Email), currency); err != nil {
		writeStoreError(w, err)
		return
	}

	u, err := s.store.GetUserByID(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}

	u, err := s.store.GetUserByID(r.Context(), userID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := auth.VerifyPassword(u.PasswordHash, req.CurrentPassword); err != nil {
		writeError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.store.UpdateUserPassword(r.Context(), u.ID, hash); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
