package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/docrag"
	docprom "github.com/fwojciec/docrag/prometheus"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAddr is the listen address of the API server.
const DefaultAddr = ":8001"

// DefaultOrigins are the local development origins allowed by CORS.
var DefaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5174",
	"http://127.0.0.1:5175",
}

// IndexLoader loads the committed index on demand.
type IndexLoader interface {
	LoadIndex(ctx context.Context) error
	Loaded() bool
}

// Server exposes question answering over HTTP.
type Server struct {
	Asker   docrag.Asker
	Index   IndexLoader
	Metrics *docprom.Metrics
	Logger  *slog.Logger

	// Origins allowed by CORS. Defaults to DefaultOrigins.
	Origins []string

	// RequestTimeout bounds one request, including the model call.
	RequestTimeout time.Duration

	server *http.Server
	ln     net.Listener
}

// NewServer returns a server answering with asker.
func NewServer(asker docrag.Asker, index IndexLoader) *Server {
	return &Server{
		Asker:          asker,
		Index:          index,
		Logger:         slog.Default(),
		Origins:        DefaultOrigins,
		RequestTimeout: 2 * time.Minute,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.Origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.With(s.instrument("/")).Get("/", s.handleRoot)
	r.With(s.instrument("/health")).Get("/health", s.handleHealth)
	r.With(s.instrument("/ask")).Post("/ask", s.handleAsk)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return r
}

// Open starts listening on addr and serves in the background.
func (s *Server) Open(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().Error("serve", "err", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Open.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Close(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) instrument(route string) func(http.Handler) http.Handler {
	if s.Metrics == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return s.Metrics.Middleware(route)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "docrag API is running",
		"endpoints": map[string]string{
			"ask":    "/ask (POST) - Ask a question about the indexed documentation",
			"health": "/health (GET) - Check API and index status",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"index_loaded": s.Index != nil && s.Index.Loaded(),
	})
}

type askRequest struct {
	Question            string           `json:"question"`
	ConversationHistory []docrag.Message `json:"conversation_history"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, docrag.Errorf(docrag.EINVALID, "invalid request body: %v", err))
		return
	}

	// The index may have been built after the server started.
	if s.Index != nil && !s.Index.Loaded() {
		if err := s.Index.LoadIndex(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	ans, err := s.Asker.Ask(r.Context(), req.Question, req.ConversationHistory)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ans.Sources == nil {
		ans.Sources = []string{}
	}
	writeJSON(w, http.StatusOK, ans)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := docrag.ErrorCode(err)
	status := errorStatus(code)
	if status == http.StatusInternalServerError {
		s.logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{
		"code":   code,
		"detail": docrag.ErrorMessage(err),
	})
}

func errorStatus(code string) int {
	switch code {
	case docrag.ENOINDEX:
		return http.StatusServiceUnavailable
	case docrag.EINVALID:
		return http.StatusBadRequest
	case docrag.ENOTFOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
