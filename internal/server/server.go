// Package server exposes the registration form over HTTP: the HTML page with
// per-session form instances, the JSON API, its OpenAPI document, and the
// embedded assets.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-eventform/pkg/apidoc"
	"github.com/goliatone/go-eventform/pkg/orchestrator"
	"github.com/goliatone/go-eventform/pkg/registration"
	"github.com/goliatone/go-eventform/pkg/renderers/vanilla"
)

const (
	// CookieName carries the session id.
	CookieName = "registration_session"
	// SessionField is the hidden input echoing the session id for clients
	// that drop cookies.
	SessionField = "_session"
	// ChangedField names the field a live change update was triggered by.
	ChangedField = "_changed"

	changePath = "/change"
	assetsPath = "/assets/"

	maxBodyBytes = 1 << 20
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessionTTL sets how long an idle session keeps its form and how often
// expired sessions are purged.
func WithSessionTTL(ttl, cleanup time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
		if cleanup > 0 {
			s.cleanupInterval = cleanup
		}
	}
}

// WithLiveChanges toggles the change endpoint hook on rendered pages.
func WithLiveChanges(enabled bool) Option {
	return func(s *Server) {
		s.liveChanges = enabled
	}
}

// WithAssets overrides the served asset bundle.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		if files != nil {
			s.assets = files
		}
	}
}

// Server routes registration requests.
type Server struct {
	orch            *orchestrator.Orchestrator
	api             *apidoc.Document
	sessions        *Sessions
	logger          zerolog.Logger
	sessionTTL      time.Duration
	cleanupInterval time.Duration
	liveChanges     bool
	assets          fs.FS
	handler         http.Handler
}

// New builds the server around orch. The JSON API is described by api.
func New(orch *orchestrator.Orchestrator, api *apidoc.Document, options ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	if api == nil {
		return nil, errors.New("server: api document is required")
	}

	s := &Server{
		orch:            orch,
		api:             api,
		logger:          zerolog.Nop(),
		sessionTTL:      30 * time.Minute,
		cleanupInterval: 10 * time.Minute,
		liveChanges:     true,
		assets:          vanilla.AssetsFS(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if _, err := orch.Model(); err != nil {
		return nil, err
	}

	s.sessions = NewSessions(s.sessionTTL, s.cleanupInterval, func() (*registration.Form, error) {
		return orch.NewForm()
	})
	s.handler = requestLogger(s.logger, s.routes())
	return s, nil
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions exposes the session store.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /{$}", s.handleSubmit)
	mux.HandleFunc("POST "+changePath, s.handleChange)
	mux.HandleFunc("POST "+apidoc.DefaultPath, s.handleAPISubmit)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET "+assetsPath, http.StripPrefix(assetsPath, http.FileServer(http.FS(s.assets))))
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("listening")
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}
