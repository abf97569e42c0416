// Package server wires the HTTP surface: telemetry ingestion, blocklist
// distribution, and the dashboard read API.
package server

import (
	_ "embed"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"netwatch/internal/store"
)

//go:embed static/dashboard.html
var dashboardHTML []byte

// Server handles HTTP requests against an injected store. Dashboard and
// log-listing routes exist only when the store also provides snapshots,
// which the in-memory backend does and the Postgres backend does not.
type Server struct {
	store  store.Store
	reader store.Snapshot
	logger *zap.Logger
}

func New(st store.Store, logger *zap.Logger) *Server {
	s := &Server{store: st, logger: logger}
	if reader, ok := st.(store.Snapshot); ok {
		s.reader = reader
	}
	return s
}

// Handler builds the route table wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleDashboardPage)
	mux.HandleFunc("GET /dashboard", s.handleDashboardPage)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/logs", s.handlePostLogs)
	mux.HandleFunc("GET /api/blocklist", s.handleGetBlocklist)
	mux.HandleFunc("POST /api/blocklist", s.handlePostBlocklist)
	mux.HandleFunc("POST /api/extensions", s.handlePostExtensions)
	mux.HandleFunc("POST /api/security", s.handlePostSecurity)

	if s.reader != nil {
		mux.HandleFunc("GET /api/logs", s.handleGetLogs)
		mux.HandleFunc("GET /api/dashboard/events", s.handleDashboardEvents)
		mux.HandleFunc("GET /api/dashboard/events/{id}", s.handleDashboardEvent)
		mux.HandleFunc("GET /api/dashboard/clients", s.handleDashboardClients)
	}

	return s.withCORS(s.withRequestLog(mux))
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(dashboardHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	s.logger.Debug("health check", zap.String("client_ip", ip))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"client_ip": ip,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// clientIP derives the caller address: transport peer first, then the
// first X-Forwarded-For hop, then X-Real-IP, then "unknown".
func clientIP(r *http.Request) string {
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}
