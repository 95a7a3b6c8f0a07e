// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Proposal ProposalConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig locates the error catalog spreadsheet.
type DataConfig struct {
	// Path is the catalog file, fixed at deployment time.
	// Supports .xlsx and .csv, optionally compressed (.gz, .zst, .xz).
	Path string `env:"DATA_PATH" default:"data/lab error list_v_20250308.xlsx"`

	// Sheet is the XLSX worksheet to read (default: first sheet)
	Sheet string `env:"DATA_SHEET"`
}

// ProposalConfig holds settings for forwarding new-error proposals.
type ProposalConfig struct {
	// Endpoint is the hosted form URL. Set to "off" to disable proposals.
	Endpoint string `env:"PROPOSAL_ENDPOINT" default:"https://formspree.io/f/xpwpwzpw"`

	// Subject is the subject line attached to each proposal
	Subject string `env:"PROPOSAL_SUBJECT" default:"New Laboratory Error Proposal"`

	// Timeout bounds a single forward request (default: 10s)
	Timeout time.Duration `env:"PROPOSAL_TIMEOUT" default:"10s"`

	// MaxConcurrent is the number of forwards in flight at once (default: 4)
	MaxConcurrent int `env:"PROPOSAL_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a submission waits for a forward slot (default: 2s)
	MaxWait time.Duration `env:"PROPOSAL_MAX_WAIT" default:"2s"`

	// BreakerFailures is consecutive failures before the breaker opens (default: 5)
	BreakerFailures int `env:"PROPOSAL_BREAKER_FAILURES" default:"5"`

	// BreakerCooldown is how long the breaker stays open (default: 1m)
	BreakerCooldown time.Duration `env:"PROPOSAL_BREAKER_COOLDOWN" default:"1m"`
}

// Enabled reports whether proposals should be forwarded.
func (c *ProposalConfig) Enabled() bool {
	return c.Endpoint != "" && c.Endpoint != "off"
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// ProposalLimit is requests per minute for proposal submission (default: 5)
	ProposalLimit int `env:"RATE_LIMIT_PROPOSAL" default:"5"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
