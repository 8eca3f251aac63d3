package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 5000
	DefaultShutdownTimeout = 10 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultWriteTimeout    = 5 * time.Second
	DefaultPingInterval    = 25 * time.Second
	DefaultPongTimeout     = 60 * time.Second
	DefaultMaxFrameSize    = 4096
	DefaultChangeBuffer    = 64
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Database defaults
	db := &c.Database.Postgres
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}

	// Session defaults
	if c.Sessions.WriteTimeout == 0 {
		c.Sessions.WriteTimeout = DefaultWriteTimeout
	}
	if c.Sessions.PingInterval == 0 {
		c.Sessions.PingInterval = DefaultPingInterval
	}
	if c.Sessions.PongTimeout == 0 {
		c.Sessions.PongTimeout = DefaultPongTimeout
	}
	if c.Sessions.MaxFrameSize == 0 {
		c.Sessions.MaxFrameSize = DefaultMaxFrameSize
	}

	// Presence defaults
	if c.Presence.ChangeBuffer == 0 {
		c.Presence.ChangeBuffer = DefaultChangeBuffer
	}
}
