// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner processes one PDF conversion job end to end: it takes a
// pending job from the job source, checks the PDF exists, runs the external
// converter, interprets the converter's exit code and output, reports the
// result to the persistence sink, and echoes the converter's output.
//
// Run never fails. Every problem is printed and reflected in the returned
// Report; a missing PDF or a converter that cannot be launched ends the run
// without recording anything.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/statement-runner/internal/convert"
	"github.com/pdiddy/statement-runner/internal/jobs"
	"github.com/pdiddy/statement-runner/internal/pdfinfo"
	"github.com/pdiddy/statement-runner/pkg/types"
)

// ErrNoSuchFile reports that a job's PDF does not exist or cannot be read.
var ErrNoSuchFile = errors.New("PDF file does not exist")

// Report describes how a run ended. Result is set only when the converter
// ran to completion, that is when Outcome.Recorded() is true.
type Report struct {
	Outcome types.Outcome
	Result  *types.JobResult
}

// Runner wires a job repository to a converter.
type Runner struct {
	repo      jobs.Repository
	conv      convert.Converter
	outputExt string
	w         io.Writer

	pageCount func(path string) (int, error)
}

// New creates a Runner that prints progress to w. outputExt is the extension
// used for the default output path; empty means convert.DefaultOutputExt.
func New(repo jobs.Repository, conv convert.Converter, outputExt string, w io.Writer) *Runner {
	if outputExt == "" {
		outputExt = convert.DefaultOutputExt
	}
	return &Runner{
		repo:      repo,
		conv:      conv,
		outputExt: outputExt,
		w:         w,
		pageCount: pdfinfo.PageCount,
	}
}

// Run processes at most one job.
func (r *Runner) Run(ctx context.Context) Report {
	req, err := r.repo.FetchPending(ctx)
	switch {
	case errors.Is(err, jobs.ErrNoJobsAvailable):
		fmt.Fprintln(r.w, "no pending jobs")
		return Report{Outcome: types.OutcomeSkipped}
	case err != nil:
		fmt.Fprintf(r.w, "error: fetching pending job: %v\n", err)
		return Report{Outcome: types.OutcomeSkipped}
	case strings.TrimSpace(req.SourcePath) == "":
		fmt.Fprintln(r.w, "no pending jobs")
		return Report{Outcome: types.OutcomeSkipped}
	}

	if err := checkReadable(req.SourcePath); err != nil {
		fmt.Fprintf(r.w, "error: %v\n", err)
		return Report{Outcome: types.OutcomeMissingFile}
	}

	r.printBanner(req.SourcePath)

	out, err := r.conv.Convert(ctx, req.SourcePath)
	if err != nil {
		fmt.Fprintf(r.w, "error: %v\n", err)
		if errors.Is(err, convert.ErrLaunch) {
			fmt.Fprintln(r.w, "       check that the converter is installed and on PATH")
		}
		return Report{Outcome: types.OutcomeLaunchFailed}
	}

	result := Interpret(req, out, r.outputExt)
	r.printResult(result)

	if err := r.repo.RecordResult(ctx, result); err != nil {
		fmt.Fprintf(r.w, "warning: recording result: %v\n", err)
	}

	fmt.Fprintln(r.w, "--- converter output ---")
	fmt.Fprintln(r.w, out.Stdout)

	outcome := types.OutcomeDone
	if result.Status == types.JobFailed {
		outcome = types.OutcomeFailed
	}
	return Report{Outcome: outcome, Result: &result}
}

// Interpret turns a finished converter run into the result for req. Exit code
// zero yields Done with the output path taken from the success marker, or
// derived from the PDF path when the marker is absent. Any other exit code
// yields Failed with the converter's standard error as the error message.
func Interpret(req types.JobRequest, out convert.Output, outputExt string) types.JobResult {
	result := types.JobResult{
		JobID:      req.ID,
		SourcePath: req.SourcePath,
		Diagnosis:  convert.Diagnose(out).String(),
		ExitCode:   out.ExitCode,
		Elapsed:    out.Elapsed,
	}
	if out.Succeeded() {
		result.Status = types.JobDone
		result.OutputPath = convert.ResolveOutputPath(out.Stdout, req.SourcePath, outputExt)
		return result
	}
	result.Status = types.JobFailed
	result.ErrorMessage = out.Stderr
	return result
}

// checkReadable reports ErrNoSuchFile unless path is a readable regular file
// or symlink to one.
func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNoSuchFile, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNoSuchFile, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s is not readable: %v", ErrNoSuchFile, path, err)
	}
	return f.Close()
}

func (r *Runner) printBanner(path string) {
	if n, err := r.pageCount(path); err == nil {
		fmt.Fprintf(r.w, "processing: %s (%d pages)\n", path, n)
		return
	}
	fmt.Fprintf(r.w, "processing: %s\n", path)
}

func (r *Runner) printResult(res types.JobResult) {
	switch res.Status {
	case types.JobDone:
		fmt.Fprintln(r.w, "status: Done")
		if info, err := os.Stat(res.OutputPath); err == nil && !info.IsDir() {
			fmt.Fprintf(r.w, "excel:  %s (%d bytes)\n", res.OutputPath, info.Size())
		} else {
			fmt.Fprintf(r.w, "excel:  %s\n", res.OutputPath)
		}
	case types.JobFailed:
		fmt.Fprintf(r.w, "status: Failed (exit code %d)\n", res.ExitCode)
		fmt.Fprintf(r.w, "error:  %s\n", res.ErrorMessage)
	}
	if res.Diagnosis != "" {
		fmt.Fprintf(r.w, "diagnosis: %s\n", res.Diagnosis)
	}
	fmt.Fprintf(r.w, "time:   %s\n", res.Elapsed.Round(10*time.Millisecond))
}
