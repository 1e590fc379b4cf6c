// Package http exposes the expense tracker's JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	"expenses/internal/config"
	"expenses/internal/presence"
	"expenses/internal/services"
)

type Server struct {
	http.Server
	svc     *services.TrackerService
	tracker *presence.Tracker

	rateLimiter *rateLimiter

	maxCSVBytes  int64
	maxJSONBytes int64

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.TrackerService, tracker *presence.Tracker, cfg *config.Config) *Server {
	s := &Server{
		svc:          svc,
		tracker:      tracker,
		rateLimiter:  newRateLimiter(),
		maxCSVBytes:  cfg.MaxCSVUploadBytes,
		maxJSONBytes: cfg.MaxJSONBodyBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleBanner)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("POST /api/upload-csv", s.handleUploadCSV)

	mux.HandleFunc("GET /api/data", s.handleDataset)
	mux.HandleFunc("POST /api/transactions", s.handleBulkInsert)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleEditTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/connect/{userId}", s.handleConnect)
	mux.HandleFunc("POST /api/heartbeat/{userId}", s.handleHeartbeat)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.withMiddleware(mux),
	}
	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
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
