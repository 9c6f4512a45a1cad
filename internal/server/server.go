// Package server exposes the component registry over HTTP. It serves
// registry queries, compiles definitions on request, and streams registry
// change events to WebSocket clients.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/forge/internal/config"
	"github.com/conneroisu/forge/internal/logging"
	"github.com/conneroisu/forge/internal/manager"
	"github.com/conneroisu/forge/internal/registry"
	"github.com/conneroisu/forge/internal/types"
)

// UpdateMessage represents a message sent to event stream clients
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Library   string    `json:"library,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Server serves the registry and its change events.
type Server struct {
	config   *config.Config
	registry *registry.Registry
	manager  *manager.Manager
	logger   logging.Logger
	hub      *Hub

	httpServer   *http.Server
	serverMutex  sync.RWMutex
	shutdownOnce sync.Once
}

// New creates a server over reg.
func New(cfg *config.Config, reg *registry.Registry, mgr *manager.Manager, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("server")

	return &Server{
		config:   cfg,
		registry: reg,
		manager:  mgr,
		logger:   logger,
		hub:      NewHub(logger),
	}
}

// Handler returns the HTTP handler with every route and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/components", s.handleComponents)
	mux.HandleFunc("GET /api/components/{id}", s.handleComponent)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/compile", s.handleCompile)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.addMiddleware(mux)
}

// Start serves until ctx is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	go s.forwardEvents(ctx, s.registry.Watch())

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, err, "Server shutdown failed")
		}
	}()

	s.logger.Info(ctx, "Server listening", "addr", server.Addr, "components", s.registry.Count())

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// forwardEvents relays registry events to the event stream.
func (s *Server) forwardEvents(ctx context.Context, events <-chan types.ComponentEvent) {
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.broadcastEvent(event)
		}
	}
}

func (s *Server) broadcastEvent(event types.ComponentEvent) {
	msg := UpdateMessage{
		Type:      "component_" + string(event.Type),
		Target:    event.ComponentID,
		Timestamp: event.Timestamp,
	}
	if event.Definition != nil {
		msg.Library = event.Definition.Library
	}

	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error(context.Background(), err, "Failed to marshal event", "id", event.ComponentID)
		return
	}
	s.hub.Broadcast(data)
}

// Shutdown closes every event stream client and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")
		s.hub.CloseAll()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}

func (s *Server) addMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		start := time.Now()
		handler.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "Request served",
			"method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}
