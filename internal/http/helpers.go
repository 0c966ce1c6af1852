package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budgeto/internal/core"
	"budgeto/internal/storage"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps repository errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already taken")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// requireAuth verifies the Bearer token and stashes the user ID in the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := r.Context()
		ctx = contextWithUserID(ctx, claims.Subject)
		next(w, r.WithContext(ctx))
	}
}

func contextWithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// userID returns the authenticated user's ID set by requireAuth.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// userTransactions returns the user's transactions, consulting the cache
// first. Write handlers call invalidateUser after mutating.
func (s *Server) userTransactions(r *http.Request, userID string) ([]core.Transaction, error) {
	if ts, ok := s.txCache.Get(userID); ok {
		return ts, nil
	}
	ts, err := s.store.ListTransactions(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	s.txCache.Set(userID, ts)
	return ts, nil
}

func (s *Server) invalidateUser(userID string) {
	s.txCache.Delete(userID)
}

// publishSync hands a transaction ID to the export queue. Publish failures
// are logged and swallowed; the worker's pending-sync sweep picks them up.
func (s *Server) publishSync(r *http.Request, id string, version int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(r.Context(), id, version); err != nil {
		slog.WarnContext(r.Context(), "Failed to publish sync message", "id", id, "error", err)
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseDate parses a YYYY-MM-DD string.
func parseDate(dateStr string) (time.Time, error) {
	return time.Parse(dateLayout, dateStr)
}

// parseAmount converts a JSON number to cents.
func parseAmount(n json.Number) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(n.String())
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}
