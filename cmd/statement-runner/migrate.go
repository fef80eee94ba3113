// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-runner/internal/jobs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres job store schema",
	Long: `Migrate applies the embedded schema migrations to the Postgres database
named by store.postgres_dsn, or by the postgres-dsn secret. The sqlite store
creates its schema on open and needs no migration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Store.PostgresDSN == "" {
			return fmt.Errorf("migrate requires store.postgres_dsn or a postgres-dsn secret")
		}
		if err := jobs.Migrate(cmd.Context(), cfg.Store.PostgresDSN); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
