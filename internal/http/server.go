// Package http exposes the JSON API: dashboard overviews, expenses, income,
// and savings goals.
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

	"github.com/google/uuid"

	"pennywise/internal/cache"
	"pennywise/internal/services"
	"pennywise/internal/store"
)

type Server struct {
	http.Server
	dashboards *services.DashboardService
	expenses   *services.ExpenseService
	profile    *services.ProfileService
	records    store.RecordStore

	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Dashboard responses are cached per user generation; any write bumps
	// the generation so stale entries become unreachable and age out.
	overviewCache *cache.LRU[dashboardResponse]
	genMu         sync.Mutex
	generations   map[uuid.UUID]uint64

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, records store.RecordStore, dashboards *services.DashboardService, expenses *services.ExpenseService, profile *services.ProfileService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		dashboards:       dashboards,
		expenses:         expenses,
		profile:          profile,
		records:          records,
		rateLimiter:      newRateLimiter(),
		metrics:          &securityMetrics{},
		overviewCache:    cache.New[dashboardResponse](200, 5*time.Minute),
		generations:      make(map[uuid.UUID]uint64),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.withSecurity(s.handleDashboard))
	mux.HandleFunc("GET /api/expenses", s.withSecurity(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withSecurity(s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withSecurity(s.handleDeleteExpense))
	mux.HandleFunc("GET /api/income", s.withSecurity(s.handleGetIncome))
	mux.HandleFunc("PUT /api/income", s.withSecurity(s.handleSetIncome))
	mux.HandleFunc("GET /api/goal", s.withSecurity(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goal", s.withSecurity(s.handleSetGoal))
	mux.HandleFunc("DELETE /api/goal", s.withSecurity(s.handleDeleteGoal))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.overviewCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Overview cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) overviewKey(userID uuid.UUID, rest string) string {
	s.genMu.Lock()
	gen := s.generations[userID]
	s.genMu.Unlock()
	return fmt.Sprintf("%s|%d|%s", userID, gen, rest)
}

// invalidateOverviews makes every cached dashboard for the user unreachable.
func (s *Server) invalidateOverviews(userID uuid.UUID) {
	s.genMu.Lock()
	s.generations[userID]++
	s.genMu.Unlock()
}

// withSecurity adds request IDs, rate limiting, security headers, and
// request logging.
func (s *Server) withSecurity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
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

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

type contextKey string

const requestIDKey contextKey = "request_id"

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

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
