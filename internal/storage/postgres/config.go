package postgres

import "time"

// Config holds PostgreSQL pool settings
type Config struct {
	// DSN is a connection string, URL or key=value form
	DSN string

	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// PingAttempts is how many times New pings before giving up
	PingAttempts int
}

// DefaultConfig returns sensible defaults for the pool
func DefaultConfig() Config {
	return Config{
		DSN:               "postgres://localhost:5432/pelada?sslmode=disable",
		MaxConns:          10,
		MinConns:          2,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		PingAttempts:      3,
	}
}
