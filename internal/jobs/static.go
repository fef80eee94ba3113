// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/statement-runner/pkg/types"
)

// StaticStore stands in for a real job store. It always offers the same
// configured PDF path and prints each recorded result instead of persisting
// it. It keeps no state, so repeated runs see the same job.
type StaticStore struct {
	sourcePath string
	w          io.Writer
}

// NewStaticStore creates a store that offers sourcePath. An empty
// sourcePath means there is never a pending job.
func NewStaticStore(sourcePath string, w io.Writer) *StaticStore {
	return &StaticStore{sourcePath: sourcePath, w: w}
}

func (s *StaticStore) FetchPending(ctx context.Context) (types.JobRequest, error) {
	if err := ctx.Err(); err != nil {
		return types.JobRequest{}, err
	}
	if s.sourcePath == "" {
		return types.JobRequest{}, ErrNoJobsAvailable
	}
	return types.JobRequest{SourcePath: s.sourcePath}, nil
}

func (s *StaticStore) RecordResult(ctx context.Context, r types.JobResult) error {
	excel := r.OutputPath
	if excel == "" {
		excel = "null"
	}
	fmt.Fprintf(s.w, "store update: pdf=%s, excel=%s, status=%s\n", r.SourcePath, excel, r.Status)
	return nil
}

func (s *StaticStore) Enqueue(ctx context.Context, sourcePath string) (types.Job, error) {
	return types.Job{}, fmt.Errorf("enqueue: %w", ErrUnsupported)
}

func (s *StaticStore) List(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	return nil, fmt.Errorf("list: %w", ErrUnsupported)
}

func (s *StaticStore) Close() error { return nil }
