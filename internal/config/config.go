// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves runner settings from viper (config file, flags,
// STATEMENT_RUNNER_* environment variables) and the secrets directory, and
// validates the result.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/statement-runner/internal/convert"
	"github.com/pdiddy/statement-runner/pkg/types"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. STATEMENT_RUNNER_CONVERTER_COMMAND.
const EnvPrefix = "STATEMENT_RUNNER"

// SecretPostgresDSN is the secrets file holding the Postgres connection string.
const SecretPostgresDSN = "postgres-dsn"

// Keys understood by Load.
const (
	KeyJobSourcePath    = "job.source_path"
	KeyConverterCommand = "converter.command"
	KeyConverterArgs    = "converter.args"
	KeyConverterTimeout = "converter.timeout"
	KeyConverterExt     = "converter.output_ext"
	KeyStoreDriver      = "store.driver"
	KeyStoreSQLitePath  = "store.sqlite_path"
	KeyStorePostgresDSN = "store.postgres_dsn"
)

// SetDefaults registers default values on v. Every key needs a default so
// that environment overrides are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyJobSourcePath, types.DefaultSourcePath)
	v.SetDefault(KeyConverterCommand, "python")
	v.SetDefault(KeyConverterArgs, []string{"pdf_to_excel.py"})
	v.SetDefault(KeyConverterTimeout, "0s")
	v.SetDefault(KeyConverterExt, convert.DefaultOutputExt)
	v.SetDefault(KeyStoreDriver, string(types.StoreStatic))
	v.SetDefault(KeyStoreSQLitePath, "data/jobs.db")
	v.SetDefault(KeyStorePostgresDSN, "")
}

// ConfigureEnv makes v read STATEMENT_RUNNER_* variables, mapping dots in
// keys to underscores.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v. A Postgres DSN
// missing from v is taken from secrets when present.
func Load(v *viper.Viper, secrets map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	if cfg.Store.PostgresDSN == "" {
		cfg.Store.PostgresDSN = secrets[SecretPostgresDSN]
	}
	cfg.Converter.Command = strings.TrimSpace(cfg.Converter.Command)

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks cfg and returns one error listing every invalid field.
func Validate(cfg types.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Namespace(), describe(e)))
	}
	sort.Strings(msgs)
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for this store driver"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", e.Param())
	case "gte":
		return "must not be negative"
	default:
		return "is invalid"
	}
}
