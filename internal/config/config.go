package config

import "time"

// Config is the top-level server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Sessions SessionConfig  `yaml:"sessions"`
	Presence PresenceConfig `yaml:"presence"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds the durable-store connection settings.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig configures a single PostgreSQL pool.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SessionConfig configures per-session websocket behavior.
type SessionConfig struct {
	WriteTimeout time.Duration `yaml:"write_timeout"` // Write deadline for pushes
	PingInterval time.Duration `yaml:"ping_interval"` // Keepalive ping period
	PongTimeout  time.Duration `yaml:"pong_timeout"`  // Max silence before the session is considered stale
	MaxFrameSize int64         `yaml:"max_frame_size"`
}

// PresenceConfig configures the presence broadcaster.
type PresenceConfig struct {
	ChangeBuffer int `yaml:"change_buffer"` // Buffered membership-change signals
}
