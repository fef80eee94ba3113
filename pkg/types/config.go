package types

import "time"

// DefaultSourcePath is the placeholder PDF returned by the static job source
// when no job store is configured. It exists for manual testing.
const DefaultSourcePath = "Test/Bank Statement/Final Test/SCOTIABANK TEST JULY 2022.pdf"

// JobConfig holds settings for the static job source.
type JobConfig struct {
	// SourcePath is the PDF returned by the static source.
	SourcePath string `json:"source_path" yaml:"source_path" mapstructure:"source_path"`
}

// ConverterConfig describes how the external PDF-to-Excel converter is
// launched. The converter is invoked as: Command Args... <pdf path>.
type ConverterConfig struct {
	// Command is the executable name or path (e.g. "python").
	Command string `json:"command" yaml:"command" mapstructure:"command" validate:"required"`

	// Args are placed before the PDF path (e.g. ["pdf_to_excel.py"]).
	Args []string `json:"args" yaml:"args" mapstructure:"args"`

	// Timeout bounds a single converter run. Zero waits indefinitely.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// OutputExt is the extension substituted for the PDF's when the
	// converter does not report an output path (default ".xlsx").
	OutputExt string `json:"output_ext" yaml:"output_ext" mapstructure:"output_ext" validate:"required,startswith=."`
}

// StoreDriver selects the job store backend.
type StoreDriver string

const (
	StoreStatic   StoreDriver = "static"
	StoreSQLite   StoreDriver = "sqlite"
	StorePostgres StoreDriver = "postgres"
)

// StoreConfig holds settings for the job store.
type StoreConfig struct {
	// Driver is one of static, sqlite, postgres.
	Driver StoreDriver `json:"driver" yaml:"driver" mapstructure:"driver" validate:"oneof=static sqlite postgres"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path" mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`

	// PostgresDSN is the connection string used by the postgres driver.
	PostgresDSN string `json:"postgres_dsn,omitempty" yaml:"postgres_dsn,omitempty" mapstructure:"postgres_dsn" validate:"required_if=Driver postgres"`
}

// Config groups all runner settings.
type Config struct {
	Job       JobConfig       `json:"job" yaml:"job" mapstructure:"job"`
	Converter ConverterConfig `json:"converter" yaml:"converter" mapstructure:"converter"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
}
