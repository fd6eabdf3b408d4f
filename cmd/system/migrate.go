package system

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/booking"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/database"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/mongodb"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the SQL schema, booking indexes and default policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = time.Minute
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			// ledger and staff tables
			fmt.Println("Running Migrations For Client DB.")
			db, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(ctx, db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			slog.Info("sql schema migrated", "tables", len(database.Tables))

			// booking collection
			fmt.Println("Ensuring Booking Indexes.")
			client, mdb, err := mongodb.Connect(ctx, cfg.Mongo)
			if err != nil {
				return fmt.Errorf("failed to connect to mongo: %w", err)
			}
			defer client.Disconnect(context.Background())

			if err := booking.EnsureIndexes(ctx, mdb); err != nil {
				return fmt.Errorf("failed to create booking indexes: %w", err)
			}

			if cfg.Authorization.PolicyFile != "" {
				fmt.Println("Policy file configured, skipping Casbin DB.")
				fmt.Println("Migrations executed successfully.")
				return nil
			}

			// casbin db
			fmt.Println("Running Migrations For Casbin DB.")
			enforcer, cleanup, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath, database.DSN(cfg.CasbinDatabase))
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			defer cleanup(context.Background())

			auth, err := authorize.NewAuthorization(enforcer)
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}

			slog.Info("Seeding Casbin policies...")
			if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	return cmd
}
