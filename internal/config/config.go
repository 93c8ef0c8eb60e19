// Package config provides configuration for the chess server and tools.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Session SessionConfig
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server:  *NewServerConfig(),
		Log:     *NewLogConfig(),
		Session: *NewSessionConfig(),
	}
}

// Validate checks every section and returns the first problem found,
// wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return c.Session.Validate()
}

// ServerConfig holds settings for the HTTP and WebSocket listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080"
	Addr string

	// ReadHeaderTimeout bounds how long a client may take to send headers
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration

	// MaxBodyBytes caps request bodies and WebSocket messages
	MaxBodyBytes int64

	// AllowedOrigins lists CORS and WebSocket origins; "*" allows any
	AllowedOrigins []string
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxBodyBytes:      64 << 10,
		AllowedOrigins:    []string{"*"},
	}
}

// Validate checks that the server configuration is usable.
func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "empty listen address")
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes (%d) must be positive: %w", s.MaxBodyBytes, errors.ErrInvalidConfig)
	}
	if s.ShutdownTimeout < 0 || s.ReadHeaderTimeout < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "negative timeout")
	}
	return nil
}

// SessionConfig holds settings for the game session hub.
type SessionConfig struct {
	// Workers is the number of game workers; each game is pinned to one
	Workers int

	// QueueSize is the per-worker action queue length
	QueueSize int

	// TimeControl is the default clock, e.g. "5m+3s"; "" means untimed
	TimeControl string

	// MaxNameLength bounds player names
	MaxNameLength int

	// MinInitial and MaxInitial bound the starting time of timed games
	MinInitial time.Duration
	MaxInitial time.Duration

	// MaxIncrement bounds the per-move increment
	MaxIncrement time.Duration
}

// NewSessionConfig creates a SessionConfig with default values.
func NewSessionConfig() *SessionConfig {
	return &SessionConfig{
		Workers:       4,
		QueueSize:     64,
		MaxNameLength: 32,
		MinInitial:    time.Minute,
		MaxInitial:    180 * time.Minute,
		MaxIncrement:  60 * time.Second,
	}
}

// Validate checks that the session configuration is usable.
func (s *SessionConfig) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("workers (%d) must be at least 1: %w", s.Workers, errors.ErrInvalidConfig)
	}
	if s.QueueSize < 1 {
		return fmt.Errorf("queue size (%d) must be at least 1: %w", s.QueueSize, errors.ErrInvalidConfig)
	}
	if s.MaxNameLength < 1 {
		return fmt.Errorf("max name length (%d) must be at least 1: %w", s.MaxNameLength, errors.ErrInvalidConfig)
	}
	if s.MinInitial <= 0 || s.MaxInitial < s.MinInitial {
		return fmt.Errorf("initial time bounds %v to %v: %w", s.MinInitial, s.MaxInitial, errors.ErrInvalidConfig)
	}
	if s.MaxIncrement < 0 {
		return fmt.Errorf("max increment (%v) must not be negative: %w", s.MaxIncrement, errors.ErrInvalidConfig)
	}
	initial, increment, err := ParseTimeControl(s.TimeControl)
	if err != nil {
		return err
	}
	return s.CheckTimeControl(initial, increment)
}

// CheckTimeControl reports whether a clock lies within the configured
// bounds. A zero initial time means untimed and always passes.
func (s *SessionConfig) CheckTimeControl(initial, increment time.Duration) error {
	if initial == 0 {
		return nil
	}
	if initial < s.MinInitial || initial > s.MaxInitial {
		return fmt.Errorf("initial time %v outside %v to %v: %w", initial, s.MinInitial, s.MaxInitial, errors.ErrInvalidConfig)
	}
	if increment < 0 || increment > s.MaxIncrement {
		return fmt.Errorf("increment %v outside 0s to %v: %w", increment, s.MaxIncrement, errors.ErrInvalidConfig)
	}
	return nil
}

// ParseTimeControl parses "initial+increment" where each part is a Go
// duration ("5m", "3s") or a whole number of seconds. The increment may be
// omitted. "" and "none" mean an untimed game and return zero durations.
func ParseTimeControl(s string) (initial, increment time.Duration, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return 0, 0, nil
	}

	base, inc, hasInc := strings.Cut(s, "+")
	if initial, err = parseClockDuration(base); err != nil || initial <= 0 {
		return 0, 0, fmt.Errorf("time control %q: %w", s, errors.ErrInvalidConfig)
	}
	if hasInc {
		if increment, err = parseClockDuration(inc); err != nil {
			return 0, 0, fmt.Errorf("time control %q: %w", s, errors.ErrInvalidConfig)
		}
	}
	return initial, increment, nil
}

// parseClockDuration accepts a duration string or whole seconds.
func parseClockDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		if secs < 0 {
			return 0, errors.ErrInvalidConfig
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.ErrInvalidConfig
	}
	return d, nil
}
