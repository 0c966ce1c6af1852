// Package http exposes the JSON API: accounts, records, and the derived
// analytics views.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budgeto/internal/auth"
	"budgeto/internal/cache"
	"budgeto/internal/core"
	"budgeto/internal/storage"
)

// Store is the persistence surface the handlers need. Both the SQLite
// repository and the in-memory store satisfy it.
type Store interface {
	CreateUser(ctx context.Context, u storage.User) (storage.User, error)
	GetUserByUsername(ctx context.Context, username string) (storage.User, error)
	GetUserByID(ctx context.Context, id string) (storage.User, error)
	UpdateUserProfile(ctx context.Context, id, email, currency string) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error

	CreateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	CreateRule(ctx context.Context, userID string, rule core.RecurringRule) (core.RecurringRule, error)
	ListRules(ctx context.Context, userID string) ([]core.RecurringRule, error)
	UpdateRule(ctx context.Context, userID string, rule core.RecurringRule) error
	SetRuleActive(ctx context.Context, userID, id string, active bool) error
	DeleteRule(ctx context.Context, userID, id string) error

	CreateGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	GetGoal(ctx context.Context, userID, id string) (core.Goal, error)
	UpdateGoal(ctx context.Context, userID string, g core.Goal) error
	SetGoalCurrent(ctx context.Context, userID, id string, current core.Money) error
	DeleteGoal(ctx context.Context, userID, id string) error
}

// SyncPublisher enqueues a transaction for spreadsheet export. It is
// optional; a nil publisher disables export.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string, version int64) error
}

type Server struct {
	http.Server
	store     Store
	tokens    *auth.TokenIssuer
	publisher SyncPublisher

	rateLimiter *rateLimiter

	// Per-user transaction list cache; every write deletes the user's entry.
	txCache  *cache.LRUCache[[]core.Transaction]
	cacheMgr *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. publisher may be nil.
func NewServer(addr string, store Store, tokens *auth.TokenIssuer, publisher SyncPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		tokens:      tokens,
		publisher:   publisher,
		rateLimiter: newRateLimiter(),
		txCache:     cache.NewLRUCache[[]core.Transaction](500, 2*time.Minute),
		cacheMgr:    cache.NewManager(),
	}

	s.cacheMgr.Register(s.txCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.withSecurityHeaders(s.requireAuth(s.handleMe)))
	mux.HandleFunc("PUT /api/auth/profile", s.withSecurityHeaders(s.requireAuth(s.handleUpdateProfile)))
	mux.HandleFunc("PUT /api/auth/password", s.withSecurityHeaders(s.requireAuth(s.handleChangePassword)))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.requireAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.requireAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", s.withSecurityHeaders(s.requireAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withSecurityHeaders(s.requireAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.requireAuth(s.handleDeleteTransaction)))
	mux.HandleFunc("GET /api/transactions/summary", s.withSecurityHeaders(s.requireAuth(s.handleSummary)))

	mux.HandleFunc("GET /api/recurring", s.withSecurityHeaders(s.requireAuth(s.handleListRules)))
	mux.HandleFunc("POST /api/recurring", s.withSecurityHeaders(s.requireAuth(s.handleCreateRule)))
	mux.HandleFunc("PUT /api/recurring/{id}", s.withSecurityHeaders(s.requireAuth(s.handleUpdateRule)))
	mux.HandleFunc("POST /api/recurring/{id}/toggle", s.withSecurityHeaders(s.requireAuth(s.handleToggleRule)))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.withSecurityHeaders(s.requireAuth(s.handleDeleteRule)))
	mux.HandleFunc("GET /api/recurring/totals", s.withSecurityHeaders(s.requireAuth(s.handleRecurringTotals)))

	mux.HandleFunc("GET /api/goals", s.withSecurityHeaders(s.requireAuth(s.handleListGoals)))
	mux.HandleFunc("POST /api/goals", s.withSecurityHeaders(s.requireAuth(s.handleCreateGoal)))
	mux.HandleFunc("PUT /api/goals/{id}", s.withSecurityHeaders(s.requireAuth(s.handleUpdateGoal)))
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.withSecurityHeaders(s.requireAuth(s.handleContribute)))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withSecurityHeaders(s.requireAuth(s.handleDeleteGoal)))
	mux.HandleFunc("GET /api/goals/portfolio", s.withSecurityHeaders(s.requireAuth(s.handlePortfolio)))

	mux.HandleFunc("GET /api/analytics/health", s.withSecurityHeaders(s.requireAuth(s.handleHealthReport)))
	mux.HandleFunc("GET /api/analytics/insights", s.withSecurityHeaders(s.requireAuth(s.handleInsights)))
	mux.HandleFunc("GET /api/analytics/recommendations", s.withSecurityHeaders(s.requireAuth(s.handleRecommendations)))
	mux.HandleFunc("GET /api/analytics/monthly", s.withSecurityHeaders(s.requireAuth(s.handleMonthlyComparison)))
	mux.HandleFunc("GET /api/analytics/stats", s.withSecurityHeaders(s.requireAuth(s.handleStats)))
	mux.HandleFunc("GET /api/charts/categories.png", s.withSecurityHeaders(s.requireAuth(s.handleCategoryChart)))
	mux.HandleFunc("GET /api/charts/balance.png", s.withSecurityHeaders(s.requireAuth(s.handleBalanceChart)))

	return s
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on writes, and
// request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter, per client IP.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Up to 60 write requests per minute per client.
	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}
