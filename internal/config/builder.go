package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithAddr sets the listen address.
func (b *ConfigBuilder) WithAddr(addr string) *ConfigBuilder {
	b.cfg.Server.Addr = addr
	return b
}

// WithMaxBodyBytes caps request and message sizes.
func (b *ConfigBuilder) WithMaxBodyBytes(n int64) *ConfigBuilder {
	b.cfg.Server.MaxBodyBytes = n
	return b
}

// WithAllowedOrigins sets the CORS and WebSocket origin list.
func (b *ConfigBuilder) WithAllowedOrigins(origins ...string) *ConfigBuilder {
	b.cfg.Server.AllowedOrigins = origins
	return b
}

// WithShutdownTimeout bounds graceful shutdown.
func (b *ConfigBuilder) WithShutdownTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Server.ShutdownTimeout = d
	return b
}

// WithLogLevel sets the log level name.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Log.Level = level
	return b
}

// WithPrettyLog enables the console log writer.
func (b *ConfigBuilder) WithPrettyLog(enabled bool) *ConfigBuilder {
	b.cfg.Log.Pretty = enabled
	return b
}

// WithWorkers sets the number of game workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Session.Workers = n
	return b
}

// WithQueueSize sets the per-worker queue length.
func (b *ConfigBuilder) WithQueueSize(n int) *ConfigBuilder {
	b.cfg.Session.QueueSize = n
	return b
}

// WithTimeControlBounds limits the clocks games may be started with.
func (b *ConfigBuilder) WithTimeControlBounds(minInitial, maxInitial, maxIncrement time.Duration) *ConfigBuilder {
	b.cfg.Session.MinInitial = minInitial
	b.cfg.Session.MaxInitial = maxInitial
	b.cfg.Session.MaxIncrement = maxIncrement
	return b
}

// WithTimeControl sets the default time control, e.g. "5m+3s".
func (b *ConfigBuilder) WithTimeControl(tc string) *ConfigBuilder {
	b.cfg.Session.TimeControl = tc
	return b
}
