package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-runner/internal/convert"
	"github.com/pdiddy/statement-runner/internal/jobs"
	"github.com/pdiddy/statement-runner/internal/runner"
)

func init() {
	rootCmd.Flags().String("source", "", "PDF returned by the static job store (overrides job.source_path)")
	rootCmd.Flags().String("converter", "", "converter executable (overrides converter.command)")
}

func runJob(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if src, _ := cmd.Flags().GetString("source"); src != "" {
		cfg.Job.SourcePath = src
	}
	if bin, _ := cmd.Flags().GetString("converter"); bin != "" {
		cfg.Converter.Command = bin
	}

	out := cmd.OutOrStdout()
	store, err := jobs.Open(cmd.Context(), cfg.Store, cfg.Job.SourcePath, out)
	if err != nil {
		return err
	}
	defer store.Close()

	r := runner.New(store, convert.NewProcessConverter(cfg.Converter), cfg.Converter.OutputExt, out)
	r.Run(cmd.Context())
	return nil
}
