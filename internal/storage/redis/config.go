package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL backstops. Sessions live for the duration of one game; the
	// TTLs just stop abandoned keys accumulating.
	RoomTTL       time.Duration
	ConnectionTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:           "redis://localhost:6379",
		PoolSize:      10,
		MinIdleConns:  2,
		RoomTTL:       6 * time.Hour,
		ConnectionTTL: 6 * time.Hour,
	}
}
