// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-runner/internal/jobs"
	"github.com/pdiddy/statement-runner/pkg/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List jobs in the job store",
	Long: `Jobs lists the jobs held by the configured sqlite or postgres job store,
oldest first, with their status, spreadsheet path, and error message.`,
	Args: cobra.NoArgs,
	RunE: runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	format := jobs.FormatTable
	switch {
	case asJSON && asYAML:
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	case asJSON:
		format = jobs.FormatJSON
	case asYAML:
		format = jobs.FormatYAML
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := jobs.Open(cmd.Context(), cfg.Store, cfg.Job.SourcePath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(cmd.Context(), jobs.ListOptions{
		Status: types.JobStatus(status),
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return jobs.WriteJobs(cmd.OutOrStdout(), list, format)
}

func init() {
	jobsCmd.Flags().String("status", "", "filter by status: pending, in_progress, Done, Failed")
	jobsCmd.Flags().Int("limit", 0, "maximum number of jobs to list (0 for all)")
	jobsCmd.Flags().Bool("json", false, "output as JSON")
	jobsCmd.Flags().Bool("yaml", false, "output as YAML")

	rootCmd.AddCommand(jobsCmd)
}
