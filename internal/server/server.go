// Package server exposes the session hub over HTTP and WebSocket.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/chess-platform-go/internal/config"
	"github.com/lgbarn/chess-platform-go/internal/errors"
	"github.com/lgbarn/chess-platform-go/internal/session"
)

// Server serves the JSON API and the /ws endpoint.
type Server struct {
	cfg config.ServerConfig
	hub *session.Hub
	log zerolog.Logger
	now func() time.Time
}

// New creates a server for hub.
func New(cfg config.ServerConfig, hub *session.Hub, log zerolog.Logger) *Server {
	return &Server{
		cfg: cfg,
		hub: hub,
		log: log.With().Str("component", "http").Logger(),
		now: time.Now,
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /api/health", s.health)
	mux.HandleFunc("GET /api/games", s.listGames)
	mux.HandleFunc("GET /api/games/{id}", s.getGame)
	mux.HandleFunc("GET /api/games/{id}/pgn", s.getGamePGN)
	mux.HandleFunc("GET /api/stats", s.stats)
	mux.HandleFunc("POST /api/position", s.position)
	mux.HandleFunc("GET /ws", s.websocket)

	return CORS(s.cfg.AllowedOrigins, RequestID(AccessLog(s.log, MaxBytes(s.cfg.MaxBodyBytes, mux))))
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout. WebSocket sessions see ctx
// cancelled through their request context.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
