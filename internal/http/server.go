package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Vivekgpta/Tracker/internal/insight"
	"github.com/Vivekgpta/Tracker/internal/ledger"
	"github.com/Vivekgpta/Tracker/internal/log"
)

type Server struct {
	http.Server

	expenses ledger.ExpenseLedger
	wallets  ledger.WalletStore
	data     ledger.DataReader
	spend    ledger.SpendReader
	alerts   ledger.AlertSink
	insights insight.Generator

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Deps bundles the ports the server needs. The ledger service satisfies all
// of them; tests swap in fakes per concern.
type Deps struct {
	Expenses ledger.ExpenseLedger
	Wallets  ledger.WalletStore
	Data     ledger.DataReader
	Spend    ledger.SpendReader
	Alerts   ledger.AlertSink
	Insights insight.Generator
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses:    deps.Expenses,
		wallets:     deps.Wallets,
		data:        deps.Data,
		spend:       deps.Spend,
		alerts:      deps.Alerts,
		insights:    deps.Insights,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /data", s.withMiddleware(s.handleGetData))
	mux.HandleFunc("POST /wallet", s.withMiddleware(s.handleCreateWallet))
	mux.HandleFunc("PUT /wallet/{id}", s.withMiddleware(s.handleUpdateWallet))
	mux.HandleFunc("POST /expense", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("PUT /expense/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expense/{id}", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("POST /send-alert", s.withMiddleware(s.handleSendAlert))
	mux.HandleFunc("POST /insight", s.withMiddleware(s.handleInsight))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
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

		fields := log.NewFields().
			WithComponent(log.ComponentHTTP).
			WithRequestID(requestID).
			WithClientIP(clientIP).
			WithHTTPRequest(r.Method, r.URL.Path, r.Header.Get("User-Agent"))
		slog.InfoContext(ctx, "Request started", fields.ToSlice()...)

		// Rate limit mutating requests only; reads are cheap and local.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldComponent, log.ComponentRateLimit)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			fields.WithHTTPResponse(rw.statusCode, duration.Milliseconds()).ToSlice()...)
	}
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

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
