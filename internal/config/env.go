package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvAddr        = "CHESS_ADDR"
	EnvLogLevel    = "CHESS_LOG_LEVEL"
	EnvLogPretty   = "CHESS_LOG_PRETTY"
	EnvWorkers     = "CHESS_WORKERS"
	EnvQueueSize   = "CHESS_QUEUE_SIZE"
	EnvTimeControl = "CHESS_TIME_CONTROL"
	EnvOrigins     = "CHESS_ALLOWED_ORIGINS"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides settings from environment variables. Unset variables
// leave the current value alone; malformed values are an error.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogPretty); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError(EnvLogPretty, v)
		}
		c.Log.Pretty = b
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvWorkers, v)
		}
		c.Session.Workers = n
	}
	if v, ok := lookup(EnvQueueSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvQueueSize, v)
		}
		c.Session.QueueSize = n
	}
	if v, ok := lookup(EnvTimeControl); ok {
		c.Session.TimeControl = v
	}
	if v, ok := lookup(EnvOrigins); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	return nil
}

func envError(key, value string) error {
	return fmt.Errorf("%s=%q: %w", key, value, errors.ErrInvalidConfig)
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
