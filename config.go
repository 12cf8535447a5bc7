package keysheet

import "time"

// ProxyType selects how configured proxy endpoints are dialed.
type ProxyType string

// Supported proxy types.
const (
	ProxyHTTPS  ProxyType = "https"
	ProxySOCKS5 ProxyType = "socks5"
)

// Default tuning values, matching the tool's historical behavior.
const (
	DefaultMaxPerEngine     = 1000
	DefaultDelay            = 1 * time.Second
	DefaultFailureThreshold = 5
	DefaultQueryTimeout     = 10 * time.Second
	DefaultStarveTimeout    = 5 * time.Second
	DefaultShutdownGrace    = 5 * time.Second
)

// Config is the value-only configuration surface consumed by the expansion
// engine and its collaborators. How the values are obtained (flags, config
// file) is the caller's concern.
type Config struct {
	// Engines selects the upstream sources; one worker runs per engine.
	Engines []Engine

	// MaxPerEngine caps how many keywords a single worker processes.
	MaxPerEngine int

	// Delay is the minimum pause between a worker's successive queries.
	Delay time.Duration

	// FailureThreshold trips a worker's breaker after this many consecutive
	// failures.
	FailureThreshold int

	// QueryTimeout bounds a single upstream query.
	QueryTimeout time.Duration

	// StarveTimeout bounds a worker's wait for the next frontier keyword.
	StarveTimeout time.Duration

	// ShutdownGrace bounds how long cancellation waits for in-flight
	// queries to finish.
	ShutdownGrace time.Duration

	// ProxyEnabled turns proxy rotation on; ProxyType and Proxies must then
	// be set.
	ProxyEnabled bool
	ProxyType    ProxyType
	Proxies      []string
}

// DefaultConfig returns a Config with every tuning value at its default and
// no engines selected.
func DefaultConfig() Config {
	return Config{
		MaxPerEngine:     DefaultMaxPerEngine,
		Delay:            DefaultDelay,
		FailureThreshold: DefaultFailureThreshold,
		QueryTimeout:     DefaultQueryTimeout,
		StarveTimeout:    DefaultStarveTimeout,
		ShutdownGrace:    DefaultShutdownGrace,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if len(c.Engines) == 0 {
		return Errorf(EINVALID, "at least one engine required")
	}
	if c.MaxPerEngine < 1 {
		return Errorf(EINVALID, "max keywords per engine must be at least 1")
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay cannot be negative")
	}
	if c.FailureThreshold < 1 {
		return Errorf(EINVALID, "failure threshold must be at least 1")
	}
	if c.QueryTimeout < time.Second {
		return Errorf(EINVALID, "query timeout must be at least 1s")
	}
	if c.StarveTimeout <= 0 {
		return Errorf(EINVALID, "starve timeout must be positive")
	}
	if c.ShutdownGrace <= 0 {
		return Errorf(EINVALID, "shutdown grace must be positive")
	}
	if c.ProxyEnabled {
		if c.ProxyType != ProxyHTTPS && c.ProxyType != ProxySOCKS5 {
			return Errorf(EINVALID, "proxy type must be https or socks5")
		}
		if len(c.Proxies) == 0 {
			return Errorf(EINVALID, "proxies enabled but none provided")
		}
	}
	return nil
}
