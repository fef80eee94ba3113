// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the statement-runner:
// job requests handed out by a job source, job results reported to the
// persistence sink, persisted job records, and configuration.
package types

import "time"

// JobStatus is the lifecycle state of a conversion job as persisted by the
// job store. The terminal values are the exact strings the sink records.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobDone       JobStatus = "Done"
	JobFailed     JobStatus = "Failed"
)

// Terminal reports whether the status is Done or Failed.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// JobRequest identifies one PDF to convert. It is created by the job source
// and not modified afterwards.
type JobRequest struct {
	// ID is the store identifier of the job. Empty for the static source.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// SourcePath is the filesystem path to the input PDF.
	SourcePath string `json:"source_path" yaml:"source_path"`
}

// JobResult is the outcome of one converter run, handed to the persistence
// sink exactly once.
//
// Status Done implies ErrorMessage is empty and OutputPath is set. Status
// Failed implies OutputPath is empty and ErrorMessage holds the converter's
// standard error verbatim, which may itself be empty.
type JobResult struct {
	JobID      string    `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	SourcePath string    `json:"source_path" yaml:"source_path"`
	OutputPath string    `json:"output_path" yaml:"output_path"`
	Status     JobStatus `json:"status" yaml:"status"`

	// ErrorMessage is the captured standard error of a failed run.
	ErrorMessage string `json:"error_message" yaml:"error_message"`

	// Diagnosis is a short human-readable classification of the converter
	// output. It never affects Status or ErrorMessage.
	Diagnosis string `json:"diagnosis,omitempty" yaml:"diagnosis,omitempty"`

	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Job is a persisted job record as listed by the job store.
type Job struct {
	ID           string    `json:"id" yaml:"id"`
	SourcePath   string    `json:"source_path" yaml:"source_path"`
	OutputPath   string    `json:"output_path" yaml:"output_path"`
	Status       JobStatus `json:"status" yaml:"status"`
	ErrorMessage string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// Outcome is the terminal state of a single runner invocation.
type Outcome string

const (
	// OutcomeSkipped means no pending job was available.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeMissingFile means the job's PDF did not exist; nothing was recorded.
	OutcomeMissingFile Outcome = "missing_file"
	// OutcomeLaunchFailed means the converter could not be started; nothing was recorded.
	OutcomeLaunchFailed Outcome = "launch_failed"
	OutcomeDone         Outcome = "done"
	OutcomeFailed       Outcome = "failed"
)

// Recorded reports whether a run with this outcome produced a JobResult.
func (o Outcome) Recorded() bool {
	return o == OutcomeDone || o == OutcomeFailed
}
