// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobs is the job source and persistence sink of the statement
// runner. A Repository hands out pending PDF conversion jobs and records
// their results; Store adds the operational calls (enqueue, list) that the
// durable backends support.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/statement-runner/pkg/types"
)

// ErrNoJobsAvailable is returned by FetchPending when nothing is pending.
var ErrNoJobsAvailable = errors.New("no pending jobs available")

// ErrUnsupported is returned by stores that cannot perform an operation.
var ErrUnsupported = errors.New("operation not supported by this job store")

// ErrJobNotFound is returned by RecordResult when no record matches.
var ErrJobNotFound = errors.New("job record not found")

// Repository is what the runner depends on.
type Repository interface {
	// FetchPending returns the next pending job and marks it in progress.
	// It returns ErrNoJobsAvailable when no job is pending.
	FetchPending(ctx context.Context) (types.JobRequest, error)

	// RecordResult stores the outcome of a job: its output path, status and
	// error message.
	RecordResult(ctx context.Context, result types.JobResult) error
}

// ListOptions filters List results.
type ListOptions struct {
	// Status restricts the listing to one status. Empty lists all.
	Status types.JobStatus
	// Limit caps the number of records. Zero means no cap.
	Limit int
}

// Store is a Repository with operational extras.
type Store interface {
	Repository

	// Enqueue adds a pending job for sourcePath.
	Enqueue(ctx context.Context, sourcePath string) (types.Job, error)

	// List returns job records in insertion order.
	List(ctx context.Context, opts ListOptions) ([]types.Job, error)

	Close() error
}

// Open returns the store selected by cfg.Driver. The static store needs no
// connection; it returns sourcePath as its only job and reports results by
// printing to w.
func Open(ctx context.Context, cfg types.StoreConfig, sourcePath string, w io.Writer) (Store, error) {
	switch cfg.Driver {
	case types.StoreStatic, "":
		return NewStaticStore(sourcePath, w), nil
	case types.StoreSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case types.StorePostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// timeLayout is a fixed-width UTC layout so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
