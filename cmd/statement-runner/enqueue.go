// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-runner/internal/jobs"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <pdf>...",
	Short: "Add pending PDF jobs to the job store",
	Long: `Enqueue inserts one pending job per PDF path into the configured
sqlite or postgres job store. Paths are stored as absolute paths unless
--relative is given. The static store cannot hold jobs.

A path that does not exist is still enqueued with a warning; the run that
picks it up reports the missing file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnqueue,
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	relative, _ := cmd.Flags().GetBool("relative")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	store, err := jobs.Open(cmd.Context(), cfg.Store, cfg.Job.SourcePath, out)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, p := range args {
		path := p
		if !relative {
			if path, err = filepath.Abs(p); err != nil {
				return fmt.Errorf("resolving %s: %w", p, err)
			}
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", path, err)
		}

		job, err := store.Enqueue(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("enqueueing %s: %w", path, err)
		}
		fmt.Fprintf(out, "enqueued %s %s\n", job.ID, job.SourcePath)
	}
	return nil
}

func init() {
	enqueueCmd.Flags().Bool("relative", false, "store paths as given instead of absolute")

	rootCmd.AddCommand(enqueueCmd)
}
