// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/statement-runner/pkg/types"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_FetchPendingEmpty(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.FetchPending(context.Background())
	assert.ErrorIs(t, err, ErrNoJobsAvailable)
}

func TestSQLiteStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	a, err := s.Enqueue(ctx, "statements/a.pdf")
	require.NoError(t, err)
	b, err := s.Enqueue(ctx, "statements/b.pdf")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, types.JobPending, a.Status)

	// Oldest first, and a claimed job is not handed out again.
	req, err := s.FetchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, req.ID)
	assert.Equal(t, "statements/a.pdf", req.SourcePath)

	req2, err := s.FetchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, req2.ID)

	_, err = s.FetchPending(ctx)
	assert.ErrorIs(t, err, ErrNoJobsAvailable)

	inProgress, err := s.List(ctx, ListOptions{Status: types.JobInProgress})
	require.NoError(t, err)
	assert.Len(t, inProgress, 2)

	require.NoError(t, s.RecordResult(ctx, types.JobResult{
		JobID:      a.ID,
		SourcePath: "statements/a.pdf",
		OutputPath: "statements/a.xlsx",
		Status:     types.JobDone,
	}))
	require.NoError(t, s.RecordResult(ctx, types.JobResult{
		JobID:        b.ID,
		SourcePath:   "statements/b.pdf",
		Status:       types.JobFailed,
		ErrorMessage: "corrupt PDF",
	}))

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, types.JobDone, all[0].Status)
	assert.Equal(t, "statements/a.xlsx", all[0].OutputPath)
	assert.Empty(t, all[0].ErrorMessage)

	assert.Equal(t, types.JobFailed, all[1].Status)
	assert.Empty(t, all[1].OutputPath)
	assert.Equal(t, "corrupt PDF", all[1].ErrorMessage)
	assert.False(t, all[1].CreatedAt.IsZero())
	assert.False(t, all[1].UpdatedAt.Before(all[1].CreatedAt))
}

func TestSQLiteStore_RecordResultByPath(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	_, err := s.Enqueue(ctx, "x.pdf")
	require.NoError(t, err)
	latest, err := s.Enqueue(ctx, "x.pdf")
	require.NoError(t, err)

	require.NoError(t, s.RecordResult(ctx, types.JobResult{
		SourcePath: "x.pdf",
		OutputPath: "x.xlsx",
		Status:     types.JobDone,
	}))

	done, err := s.List(ctx, ListOptions{Status: types.JobDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, latest.ID, done[0].ID)
}

func TestSQLiteStore_RecordResultUnknownJob(t *testing.T) {
	s := newTestSQLite(t)

	err := s.RecordResult(context.Background(), types.JobResult{JobID: "nope", SourcePath: "n.pdf", Status: types.JobDone})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestSQLiteStore_EnqueueRejectsEmptyPath(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.Enqueue(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	for _, p := range []string{"1.pdf", "2.pdf", "3.pdf"} {
		_, err := s.Enqueue(ctx, p)
		require.NoError(t, err)
	}

	got, err := s.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1.pdf", got[0].SourcePath)
	assert.Equal(t, "2.pdf", got[1].SourcePath)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = s.Enqueue(ctx, "kept.pdf")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	req, err := s.FetchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept.pdf", req.SourcePath)
}

func TestSQLiteStore_WaitsOutAnotherWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	job, err := s.Enqueue(ctx, "statements/a.pdf")
	require.NoError(t, err)

	// A second handle stands in for another runner holding the write lock.
	other, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer other.Close()
	conn, err := other.db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.ExecContext(ctx, "BEGIN IMMEDIATE")
	require.NoError(t, err)

	released := make(chan error, 1)
	go func() {
		time.Sleep(300 * time.Millisecond)
		_, err := conn.ExecContext(ctx, "ROLLBACK")
		released <- err
	}()

	start := time.Now()
	err = s.RecordResult(ctx, types.JobResult{JobID: job.ID, SourcePath: job.SourcePath, Status: types.JobDone, OutputPath: "a.xlsx"})
	require.NoError(t, err, "the busy timeout should outlast the other writer")
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	require.NoError(t, <-released)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, types.JobDone, all[0].Status)
}
