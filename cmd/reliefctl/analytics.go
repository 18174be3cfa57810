package main

import (
	"encoding/json"
	"fmt"

	"github.com/dalemusser/reliefhub/internal/app/services/analytics"
	"github.com/dalemusser/reliefhub/internal/app/store/activity"
	helprequeststore "github.com/dalemusser/reliefhub/internal/app/store/helprequests"
	inventorystore "github.com/dalemusser/reliefhub/internal/app/store/inventory"
	volunteerstore "github.com/dalemusser/reliefhub/internal/app/store/volunteers"
	"github.com/spf13/cobra"
)

func analyticsCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print the admin dashboard analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := app.db()
			svc := analytics.New(helprequeststore.New(db), volunteerstore.New(db), inventorystore.New(db), activity.New(db))

			a, err := svc.Analytics(app.ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			fmt.Fprintf(out, "Volunteer signups:    %d\n", a.TotalSignups)
			fmt.Fprintf(out, "Help requests:        %d\n", a.TotalHelpRequests)
			fmt.Fprintf(out, "  high / medium / low %d / %d / %d\n",
				a.RequestsByUrgency.High, a.RequestsByUrgency.Medium, a.RequestsByUrgency.Low)
			fmt.Fprintf(out, "  resolved            %d\n", a.ResolvedVsUnresolved.Resolved)
			fmt.Fprintf(out, "  unresolved          %d\n", a.ResolvedVsUnresolved.Unresolved)
			fmt.Fprintf(out, "Most requested:       %s (%d)\n", a.MostRequestedHelpType.Type, a.MostRequestedHelpType.Count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
