// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/pdiddy/statement-runner/pkg/types"
)

// SQLiteStore keeps jobs in a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at path and creates the
// schema if it does not exist.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// _busy_timeout makes the driver wait out another process's lock.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes FetchPending's read-then-update.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS statement_jobs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			pdf_path TEXT NOT NULL,
			excel_path TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_statement_jobs_status ON statement_jobs(status, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_statement_jobs_pdf_path ON statement_jobs(pdf_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// FetchPending claims the oldest pending job. Lock contention with another
// process is absorbed by the driver's busy timeout.
func (s *SQLiteStore) FetchPending(ctx context.Context) (types.JobRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.JobRequest{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var req types.JobRequest
	err = tx.QueryRowContext(ctx,
		`SELECT id, pdf_path FROM statement_jobs WHERE status = ? ORDER BY seq LIMIT 1`,
		string(types.JobPending),
	).Scan(&req.ID, &req.SourcePath)
	if errors.Is(err, sql.ErrNoRows) {
		return types.JobRequest{}, ErrNoJobsAvailable
	}
	if err != nil {
		return types.JobRequest{}, fmt.Errorf("selecting pending job: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE statement_jobs SET status = ?, updated_at = ? WHERE id = ?`,
		string(types.JobInProgress), formatTime(s.now()), req.ID,
	); err != nil {
		return types.JobRequest{}, fmt.Errorf("marking job %s in progress: %w", req.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return types.JobRequest{}, fmt.Errorf("committing: %w", err)
	}
	return req, nil
}

// RecordResult updates the record with the result's job ID. Results without
// an ID update the most recent record for the same PDF path.
func (s *SQLiteStore) RecordResult(ctx context.Context, r types.JobResult) error {
	var (
		res sql.Result
		err error
	)
	now := formatTime(s.now())
	if r.JobID != "" {
		res, err = s.db.ExecContext(ctx,
			`UPDATE statement_jobs SET excel_path = ?, status = ?, error_message = ?, updated_at = ?
			 WHERE id = ?`,
			r.OutputPath, string(r.Status), r.ErrorMessage, now, r.JobID,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE statement_jobs SET excel_path = ?, status = ?, error_message = ?, updated_at = ?
			 WHERE seq = (SELECT max(seq) FROM statement_jobs WHERE pdf_path = ?)`,
			r.OutputPath, string(r.Status), r.ErrorMessage, now, r.SourcePath,
		)
	}
	if err != nil {
		return fmt.Errorf("recording result for %s: %w", r.SourcePath, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("recording result for %s: %w", r.SourcePath, err)
	}
	if n == 0 {
		return fmt.Errorf("recording result for %s: %w", r.SourcePath, ErrJobNotFound)
	}
	return nil
}

func (s *SQLiteStore) Enqueue(ctx context.Context, sourcePath string) (types.Job, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return types.Job{}, errors.New("enqueue: empty PDF path")
	}
	now := s.now().UTC()
	job := types.Job{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		Status:     types.JobPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statement_jobs (id, pdf_path, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		job.ID, job.SourcePath, string(job.Status), formatTime(now), formatTime(now),
	)
	if err != nil {
		return types.Job{}, fmt.Errorf("inserting job for %s: %w", sourcePath, err)
	}
	return job, nil
}

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	query := `SELECT id, pdf_path, excel_path, status, error_message, created_at, updated_at FROM statement_jobs`
	var args []any
	if opts.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY seq`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var out []types.Job
	for rows.Next() {
		var (
			j                types.Job
			status           string
			created, updated string
		)
		if err := rows.Scan(&j.ID, &j.SourcePath, &j.OutputPath, &status, &j.ErrorMessage, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.Status = types.JobStatus(status)
		j.CreatedAt = parseTime(created)
		j.UpdatedAt = parseTime(updated)
		out = append(out, j)
	}
	return out, rows.Err()
}
