package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/lib/pq"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

// Open connects to PostgreSQL, applies pool settings and pings.
func Open(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open("postgres", DSN(c))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen, maxIdle := c.Pool.MaxOpenConns, c.Pool.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	conn.SetConnMaxLifetime(connMaxLifetime(c.Pool))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// NewDriver wraps db in an ent SQL driver. Repositories build their
// statements with entsql builders and execute them through the driver.
func NewDriver(db *sql.DB) *entsql.Driver {
	return entsql.OpenDB(dialect.Postgres, db)
}

// Dialect returns a statement builder for PostgreSQL placeholders.
func Dialect() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.Postgres)
}
