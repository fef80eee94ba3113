// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/pdiddy/statement-runner/pkg/types"
)

// executor abstracts process execution for testing.
type executor interface {
	// Run starts name with args, copies its output streams into stdout and
	// stderr, and waits for it to exit. A process that ran and exited
	// non-zero yields an *exec.ExitError.
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// waitDelay bounds how long Run keeps reading output after the converter
// exits or is killed. Descendants that inherited the pipes otherwise hold
// Run open until they exit.
var waitDelay = 5 * time.Second

// osExecutor is the production executor backed by os/exec. Because stdout and
// stderr are not *os.File, os/exec drains each pipe on its own goroutine, so
// a converter that floods one stream cannot block on the other.
//
// The converter runs in its own process group; cancelling ctx kills the
// whole group, not only the direct child.
type osExecutor struct{}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	return cmd.Run()
}

// ProcessConverter runs the converter as a subprocess:
// command args... <pdf path>.
type ProcessConverter struct {
	command string
	args    []string
	timeout time.Duration
	exec    executor
}

// NewProcessConverter creates a converter from cfg. No check is made that the
// command exists; a missing binary surfaces as ErrLaunch from Convert.
func NewProcessConverter(cfg types.ConverterConfig) *ProcessConverter {
	return newProcessConverter(cfg, &osExecutor{})
}

func newProcessConverter(cfg types.ConverterConfig, exec executor) *ProcessConverter {
	args := make([]string, len(cfg.Args))
	copy(args, cfg.Args)
	return &ProcessConverter{
		command: cfg.Command,
		args:    args,
		timeout: cfg.Timeout,
		exec:    exec,
	}
}

// Command returns the executable the converter launches.
func (p *ProcessConverter) Command() string { return p.command }

// Convert runs the converter against pdfPath and waits for it to exit. Both
// output streams are captured in full. A non-zero exit, including one caused
// by the timeout killing the process, is reported in Output.ExitCode with a
// nil error. The only error is ErrLaunch, wrapped with the cause.
func (p *ProcessConverter) Convert(ctx context.Context, pdfPath string) (Output, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(p.args)+1)
	args = append(args, p.args...)
	args = append(args, pdfPath)

	var stdout, stderr bytes.Buffer
	start := time.Now()
	err := p.exec.Run(ctx, p.command, args, &stdout, &stderr)
	out := Output{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}

	// The converter exited zero but a descendant kept the pipes open past
	// waitDelay. Its output up to that point is complete.
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}

	// Cancellation before or during start is not a launch problem.
	if ctx.Err() != nil {
		out.ExitCode = -1
		return out, nil
	}

	return out, fmt.Errorf("%w: %s: %w", ErrLaunch, p.command, err)
}
