// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the statement-runner CLI. Invoked with
// no arguments it processes one pending bank-statement PDF: it runs the
// external PDF-to-Excel converter on it and records the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/statement-runner/internal/config"
	"github.com/pdiddy/statement-runner/internal/secrets"
	"github.com/pdiddy/statement-runner/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd runs one job when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "statement-runner",
	Short: "Convert one pending bank-statement PDF to Excel",
	Long: `statement-runner takes one pending PDF job from the job store, checks
the PDF exists, runs the external PDF-to-Excel converter on it, and records
whether the conversion is Done or Failed together with the spreadsheet path
or the converter's error output.

The converter's own failure does not change the exit status of this command.
A missing PDF or a converter that cannot be started ends the run without
recording a status.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", secrets.Names(s))
		}
		return nil
	},
	RunE: runJob,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./statement-runner.yaml or ~/.config/statement-runner/config.yaml)")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of secret files (postgres-dsn)")
	pf.String("store", "", "job store driver: static, sqlite, or postgres")

	_ = viper.BindPFlag(config.KeyStoreDriver, pf.Lookup("store"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("statement-runner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "statement-runner"))
		}
	}

	config.ConfigureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config file %s: %v\n", cfgFile, err)
	}
}

// loadConfig resolves the effective configuration for a command.
func loadConfig() (types.Config, error) {
	return config.Load(viper.GetViper(), loadedSecrets)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
