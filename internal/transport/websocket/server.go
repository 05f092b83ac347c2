package websocket

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/session"
)

// Options configures the HTTP server.
type Options struct {
	// AllowedOrigins lists origins allowed by CORS and the WebSocket
	// handshake. "*" allows any origin.
	AllowedOrigins []string
	Logger         *log.Logger
}

// Server serves the HTTP API and WebSocket endpoint for one arena.
type Server struct {
	manager  *session.Manager
	router   *mux.Router
	logger   *log.Logger
	origins  []string
	upgrader websocket.Upgrader

	done      chan struct{}
	closeOnce sync.Once
}

// NewServer creates a server backed by m.
func NewServer(m *session.Manager, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		manager: m,
		router:  mux.NewRouter(),
		logger:  logger,
		origins: origins,
		done:    make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.originAllowed(r.Header.Get("Origin"))
		},
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/top-scores", s.handleTopScores).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/{player_id}", s.handleWebSocket)
}

// ServeHTTP implements http.Handler. CORS wraps the router so preflight
// requests are answered even for routes that only accept GET.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.cors(s.router).ServeHTTP(w, r)
}

// Close tells every open WebSocket connection to shut down. The HTTP
// listener itself is owned by the caller.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Server) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				}
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, "<h1>Snake Game Backend</h1>")
}

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	entries, err := s.manager.Leaderboard(0)
	if err != nil {
		s.logger.Error("failed to load leaderboard", "err", err)
		respondError(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	respondJSON(w, http.StatusOK, newScoreMessages(entries))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"players": s.manager.Arena().Len(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["player_id"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		s.logger.Warn("websocket upgrade failed", "player", playerID, "err", err)
		return
	}

	c := newClient(s, conn, playerID)
	go c.writePump()
	c.readPump()
}
