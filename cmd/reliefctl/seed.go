package main

import (
	"fmt"

	"github.com/dalemusser/reliefhub/internal/app/seed"
	inventorystore "github.com/dalemusser/reliefhub/internal/app/store/inventory"
	publicinfostore "github.com/dalemusser/reliefhub/internal/app/store/publicinfo"
	sitecontentstore "github.com/dalemusser/reliefhub/internal/app/store/sitecontent"
	"github.com/spf13/cobra"
)

func seedCmd(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed starter content into empty collections",
		Long: `Seed alerts, status tiles, updates, shelters, resources, inventory and
announcements. Collections that already hold data are left untouched, so the
command is safe to re-run.

Without --file the built-in starter content is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadSeed(file)
			if err != nil {
				return err
			}

			db := app.db()
			res, err := seed.Run(app.ctx, data, seed.Stores{
				PublicInfo:  publicinfostore.New(db),
				Inventory:   inventorystore.New(db),
				SiteContent: sitecontentstore.New(db),
			}, app.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Total() == 0 {
				fmt.Fprintln(out, "Nothing to seed; every collection already has data.")
				return nil
			}
			fmt.Fprintf(out, "Seeded %d documents:\n", res.Total())
			for _, row := range []struct {
				name string
				n    int
			}{
				{"alerts", res.Alerts},
				{"status tiles", res.StatusTiles},
				{"updates", res.Updates},
				{"shelters", res.Shelters},
				{"resources", res.Resources},
				{"inventory", res.Inventory},
				{"announcements", res.Announcements},
			} {
				fmt.Fprintf(out, "  %-14s %d\n", row.name, row.n)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (defaults to the built-in content)")
	return cmd
}

func loadSeed(file string) (seed.Data, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.LoadFile(file)
}
