package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/session"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

// SessionHeader selects the session a request acts on. The "session" query
// parameter is accepted as well; without either the default table is used.
const SessionHeader = "X-Session-ID"

// Server serves the blackjack HTTP API and its WebSocket twin
type Server struct {
	addr           string
	allowedOrigins []string
	httpServer     *http.Server
	router         chi.Router
	upgrader       websocket.Upgrader
	connections    map[*Connection]bool
	mu             sync.RWMutex
	logger         *log.Logger
	service        *GameService
}

// Option configures a Server
type Option func(*Server)

// WithAllowedOrigins sets the CORS and WebSocket origin allow list. "*"
// allows every origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// NewServer creates a server for the tables held in store
func NewServer(addr string, store *session.Store, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		allowedOrigins: []string{"*"},
		connections:    make(map[*Connection]bool),
		logger:         logger.WithPrefix("server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.service = NewGameService(store, logger)
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: !allowsAnyOrigin(s.allowedOrigins),
		MaxAge:           86400,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Get("/init", s.handleInit)
	r.Post("/startGame", s.handleStartGame)
	r.Post("/action", s.handleAction)
	r.Get("/simulateDealer", s.handleSimulateDealer)
	r.Post("/end", s.handleEnd)
	r.Get("/stats", s.handleStats)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})

	r.Get("/ws", s.handleWebSocket)
	return r
}

// Handler returns the HTTP handler, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Service returns the game service shared by both transports
func (s *Server) Service() *GameService {
	return s.service
}

// Start listens on the configured address. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting blackjack server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes WebSocket clients and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	s.logger.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}

// ConnectionCount returns the number of open WebSocket clients
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// allowsAnyOrigin reports whether origins contains the "*" wildcard.
// Credentials are only allowed for an explicit allow list.
func allowsAnyOrigin(origins []string) bool {
	return slices.Contains(origins, "*")
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// sessionID resolves the session for a request. Requests without one share
// the default table, which is created on first use.
func (s *Server) sessionID(r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = r.URL.Query().Get("session")
	}
	if id == "" {
		s.service.Store().Ensure(session.DefaultID)
		return session.DefaultID
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // Ignore write errors; the client is gone
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, data := errorData(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("Request rejected", "path", r.URL.Path, "code", data.Code, "error", err)
	}
	writeJSON(w, status, data)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return nil
}
