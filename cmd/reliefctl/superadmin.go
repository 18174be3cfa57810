package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dalemusser/reliefhub/internal/app/services/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	adminuserstore "github.com/dalemusser/reliefhub/internal/app/store/adminusers"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/spf13/cobra"
)

func createSuperAdminCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-superadmin",
		Short: "Create or repair a super-admin account",
		Long: `Create a super-admin with the given email, or promote, reactivate and
re-key an existing account with that email.

The password may be passed with --password or RELIEFHUB_SUPERADMIN_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("RELIEFHUB_SUPERADMIN_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("both --email and a password are required")
			}

			db := app.db()
			activityStore := activity.New(db)
			audit := auditlog.New(activityStore, app.logger, auditlog.Config{})
			users := adminusers.New(adminuserstore.New(db), nil, audit, activityStore, app.logger)

			res, err := users.EnsureSuperAdmin(app.ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Super admin %s: %s\n", email, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
