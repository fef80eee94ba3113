// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdiddy/statement-runner/pkg/types"
)

// PostgresStore keeps jobs in the statement_jobs table of a Postgres
// database. The schema is managed by Migrate.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	ping := func() error { return pool.Ping(ctx) }
	if err := withRetry(ctx, 0, postgresUnreachable, ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// FetchPending claims the oldest pending job. SKIP LOCKED keeps two runners
// from claiming the same record.
func (s *PostgresStore) FetchPending(ctx context.Context) (types.JobRequest, error) {
	var req types.JobRequest
	err := s.pool.QueryRow(ctx,
		`UPDATE statement_jobs SET status = $1, updated_at = now()
		 WHERE seq = (
			SELECT seq FROM statement_jobs WHERE status = $2
			ORDER BY seq LIMIT 1 FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, pdf_path`,
		string(types.JobInProgress), string(types.JobPending),
	).Scan(&req.ID, &req.SourcePath)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.JobRequest{}, ErrNoJobsAvailable
	}
	if err != nil {
		return types.JobRequest{}, fmt.Errorf("claiming pending job: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) RecordResult(ctx context.Context, r types.JobResult) error {
	var query string
	var key string
	if r.JobID != "" {
		query = `UPDATE statement_jobs SET excel_path = $1, status = $2, error_message = $3, updated_at = now()
		       WHERE id = $4`
		key = r.JobID
	} else {
		query = `UPDATE statement_jobs SET excel_path = $1, status = $2, error_message = $3, updated_at = now()
		       WHERE seq = (SELECT max(seq) FROM statement_jobs WHERE pdf_path = $4)`
		key = r.SourcePath
	}

	tag, err := s.pool.Exec(ctx, query, r.OutputPath, string(r.Status), r.ErrorMessage, key)
	if err != nil {
		return fmt.Errorf("recording result for %s: %w", r.SourcePath, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recording result for %s: %w", r.SourcePath, ErrJobNotFound)
	}
	return nil
}

func (s *PostgresStore) Enqueue(ctx context.Context, sourcePath string) (types.Job, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return types.Job{}, errors.New("enqueue: empty PDF path")
	}
	job := types.Job{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		Status:     types.JobPending,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO statement_jobs (id, pdf_path, status) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		job.ID, job.SourcePath, string(job.Status),
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return types.Job{}, fmt.Errorf("inserting job for %s: %w", sourcePath, err)
	}
	return job, nil
}

func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	query := `SELECT id, pdf_path, excel_path, status, error_message, created_at, updated_at FROM statement_jobs`
	var args []any
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		query += fmt.Sprintf(` WHERE status = $%d`, len(args))
	}
	query += ` ORDER BY seq`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var out []types.Job
	for rows.Next() {
		var (
			j      types.Job
			status string
		)
		if err := rows.Scan(&j.ID, &j.SourcePath, &j.OutputPath, &status, &j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.Status = types.JobStatus(status)
		out = append(out, j)
	}
	return out, rows.Err()
}
