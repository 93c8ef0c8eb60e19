// chess-server runs the chess session hub behind an HTTP and WebSocket API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/chess-platform-go/internal/config"
	"github.com/lgbarn/chess-platform-go/internal/server"
	"github.com/lgbarn/chess-platform-go/internal/session"
)

const (
	programVersion = "0.1.0"
	statsInterval  = time.Minute
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fs, version := newFlagSet(cfg)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if *version {
		fmt.Printf("chess-server version %s\n", programVersion)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// newFlagSet binds command-line flags to cfg. Defaults are the values
// already in cfg, so flags override environment variables.
func newFlagSet(cfg *config.Config) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet("chess-server", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: chess-server [options]\n\n")
		fmt.Fprintf(fs.Output(), "Serves live chess games over HTTP and WebSocket.\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nEnvironment: %s, %s, %s, %s, %s, %s, %s\n",
			config.EnvAddr, config.EnvLogLevel, config.EnvLogPretty, config.EnvWorkers,
			config.EnvQueueSize, config.EnvTimeControl, config.EnvOrigins)
	}

	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "Listen address")
	fs.Int64Var(&cfg.Server.MaxBodyBytes, "max-body", cfg.Server.MaxBodyBytes, "Maximum request body and WebSocket message size in bytes")
	fs.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", cfg.Server.ShutdownTimeout, "Graceful shutdown limit")
	fs.Func("origins", "Comma separated allowed origins (default \""+strings.Join(cfg.Server.AllowedOrigins, ",")+"\")", func(v string) error {
		cfg.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
		return nil
	})

	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: trace, debug, info, warn, error")
	fs.BoolVar(&cfg.Log.Pretty, "log-pretty", cfg.Log.Pretty, "Human readable console logs instead of JSON")

	fs.IntVar(&cfg.Session.Workers, "workers", cfg.Session.Workers, "Number of game workers")
	fs.IntVar(&cfg.Session.QueueSize, "queue", cfg.Session.QueueSize, "Per-worker action queue length")
	fs.StringVar(&cfg.Session.TimeControl, "time-control", cfg.Session.TimeControl, "Default time control, e.g. 5m+3s (empty for untimed)")

	version := fs.Bool("version", false, "Print version and exit")
	return fs, version
}

// newLogger builds the root logger from the log configuration.
func newLogger(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := cfg.ZerologLevel()
	if err != nil {
		return zerolog.Nop(), err
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	hub, err := session.NewHub(cfg.Session, log)
	if err != nil {
		return err
	}
	defer hub.Close()

	log.Info().
		Str("addr", cfg.Server.Addr).
		Int("workers", cfg.Session.Workers).
		Str("time_control", hub.DefaultTimeControl().String()).
		Str("version", programVersion).
		Msg("starting chess server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(cfg.Server, hub, log).Run(gctx)
	})
	g.Go(func() error {
		reportStats(gctx, hub, log, statsInterval)
		return nil
	})
	return g.Wait()
}

// reportStats logs hub counters every interval until ctx is done.
func reportStats(ctx context.Context, hub *session.Hub, log zerolog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := hub.Stats()
			log.Info().
				Int("active_games", st.ActiveGames).
				Int("players", st.Players).
				Int("waiting", st.Waiting).
				Msg("stats")
		}
	}
}
