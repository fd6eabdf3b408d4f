package database

import (
	"fmt"
	"time"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

// DSN returns a lib/pq key/value connection string.
func DSN(c config.DatabaseConfig) string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslmode,
	)
}

// withDBName returns a copy of c pointing at another database on the same server.
func withDBName(c config.DatabaseConfig, name string) config.DatabaseConfig {
	c.DBName = name
	return c
}

func connMaxLifetime(p config.DatabasePoolConfig) time.Duration {
	if p.ConnMaxLifetimeMin <= 0 {
		return defaultConnMaxLifetime
	}
	return time.Duration(p.ConnMaxLifetimeMin) * time.Minute
}
