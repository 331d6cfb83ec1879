package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ClientTTL bounds how long a client record can outlive its connection.
	// Records are deleted on disconnect; the TTL only reaps records orphaned
	// by a crashed gateway.
	ClientTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ClientTTL:    24 * time.Hour,
	}
}
