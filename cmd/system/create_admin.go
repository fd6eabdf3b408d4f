package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinicdesk_backend/internal/service/staff"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/database"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/util/password"
)

// NewCreateAdminCommand seeds the first full admin. It refuses to run once an
// active full admin exists.
func NewCreateAdminCommand() *cobra.Command {
	var name, email, pw string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first full-admin staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			db, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			svc := staff.New(staff.Deps{
				Store:             staff.NewPostgresStore(database.NewDriver(db)),
				Hasher:            password.NewHasher(password.ParamsFromConfig(cfg.Password)),
				GeneratedPwLength: cfg.Authentication.GeneratedPasswordLength,
			})

			res, err := svc.Bootstrap(ctx, staff.CreateRequest{
				Name:     name,
				Email:    email,
				Password: pw,
			})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Printf("Full admin created: %s (%s)\n", res.Staff.Email, res.Staff.ID)
			if res.GeneratedPassword != "" {
				fmt.Printf("Generated password: %s\n", res.GeneratedPassword)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&pw, "password", "", "Password; generated when empty")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
