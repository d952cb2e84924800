package cli

import (
	"domainkeeper/internal/cmdutil"
	"domainkeeper/internal/config"
	"domainkeeper/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	seedFile := ""

	cmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Create or update the database schema",
		Long:    "Create or update the database schema and optionally upsert domain configurations, countries and verticals from a YAML file",
		Example: "domainkeeper migrate --seed configurations.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if seedFile == "" {
				seedFile = cfg.ConfigurationsFile
			}
			if seedFile != "" {
				if err := database.SeedFromFile(cmd.Context(), db, seedFile); err != nil {
					return err
				}
			}

			cmdutil.PrintS("Database is up to date")
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed", "", "YAML file with configurations to upsert, defaults to CONFIGURATIONS_FILE")
	return cmd
}
