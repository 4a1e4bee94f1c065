package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/gemdocs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout bounds graceful shutdown of the control server.
const ShutdownTimeout = 10 * time.Second

// Server is the HTTP control surface: refresh triggers, status, liveness,
// and an optional MCP endpoint.
type Server struct {
	refresher gemdocs.Refresher
	mcp       http.Handler
	logger    *slog.Logger
	router    chi.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMCPHandler mounts h at /mcp.
func WithMCPHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.mcp = h
	}
}

// WithServerLogger sets the logger for request logging.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server backed by refresher.
func NewServer(refresher gemdocs.Refresher, opts ...ServerOption) *Server {
	s := &Server{
		refresher: refresher,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/refresh", s.handleRefresh)
	r.Get("/refresh/status", s.handleRefreshStatus)
	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
		r.Handle("/mcp/*", s.mcp)
	}
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.logger.Info("http server listening", "addr", ln.Addr().String())
	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// refreshResponse is the body of a refresh trigger.
type refreshResponse struct {
	Status gemdocs.TriggerResult `json:"status"`
}

// statusResponse is the body of a refresh status request.
type statusResponse struct {
	Status  gemdocs.RunState `json:"status"`
	LastRun *time.Time       `json:"last_run"`
	Error   *string          `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	result := s.refresher.Trigger()
	s.respondJSON(w, http.StatusAccepted, refreshResponse{Status: result})
}

func (s *Server) handleRefreshStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.refresher.Status()
	resp := statusResponse{Status: status.State, LastRun: status.LastRun}
	if status.State == gemdocs.RunFailed && status.Error != "" {
		resp.Error = &status.Error
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// logRequests logs each request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}
