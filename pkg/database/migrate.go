package database

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
)

// Migrate creates or extends the staff and ledger tables. Like ent's
// Schema.Create it only appends: missing tables, columns and indexes are
// added, nothing is dropped.
func Migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(NewDriver(db))
	if err != nil {
		return fmt.Errorf("failed to build migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
