package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chess-platform-go/internal/errors"
)

// LogConfig holds settings for structured logging.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error
	Level string

	// Pretty switches from JSON lines to the human readable console writer
	Pretty bool
}

// NewLogConfig creates a LogConfig with default values.
func NewLogConfig() *LogConfig {
	return &LogConfig{Level: "info"}
}

// ZerologLevel returns the configured level.
func (l *LogConfig) ZerologLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", l.Level, errors.ErrInvalidConfig)
	}
	return level, nil
}

// Validate checks that the level name is known.
func (l *LogConfig) Validate() error {
	_, err := l.ZerologLevel()
	return err
}
