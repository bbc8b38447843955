package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/labelgrid/internal/shared"
	"github.com/desertthunder/labelgrid/internal/workspace"
)

const shutdownTimeout = 5 * time.Second

// Server wires the API, thumbnails and middleware onto one [http.Server].
type Server struct {
	router *BasicRouter
	http   *http.Server
	logger *log.Logger
}

// New builds the routes for ws. thumbDir may be empty when thumbnails are disabled.
func New(cfg shared.ServerConfig, ws *workspace.Workspace, thumbDir string, logger *log.Logger) *Server {
	router := NewBasicRouter()
	router.Use(
		RequestID(),
		Logging(logger),
		Recover(logger),
		RateLimit(cfg.RateLimit, cfg.Burst),
	)

	router.Handler(NewAPIHandler(ws, logger))
	if thumbDir != "" {
		router.Handler(NewThumbnailHandler(thumbDir))
	}
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.ListenAndServe] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		serverErrors <- s.http.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
		return err
	}
	return nil
}
