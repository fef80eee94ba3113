// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the external PDF-to-Excel converter and interprets
// what it printed. The converter itself is an opaque subprocess; this
// package only launches it, captures its output streams, and derives the
// spreadsheet path from its success marker line.
package convert

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultOutputExt is the spreadsheet extension used when the converter does
// not report where it wrote its output.
const DefaultOutputExt = ".xlsx"

// ErrLaunch reports that the converter process could not be started at all
// (binary missing, not on PATH, not executable).
var ErrLaunch = errors.New("converter could not be started")

// markerRe matches the converter's success line. The dot does not cross line
// boundaries, so the capture ends at the end of the marker line.
var markerRe = regexp.MustCompile(`Excel file created successfully -> (.+)`)

// Output holds everything a finished converter run produced. A non-zero
// ExitCode is a normal result, not an error.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
}

// Succeeded reports whether the converter exited with status zero.
func (o Output) Succeeded() bool {
	return o.ExitCode == 0
}

// Converter turns a PDF into a spreadsheet. Implementations block until the
// conversion finishes. Errors are returned only when the conversion could not
// be attempted; a converter that ran and failed reports that in Output.
type Converter interface {
	Convert(ctx context.Context, pdfPath string) (Output, error)
}

// ParseOutputPath extracts the spreadsheet path from the first success marker
// line in stdout, trimmed of surrounding whitespace. It reports false when no
// marker is present or the captured path is blank.
func ParseOutputPath(stdout string) (string, bool) {
	m := markerRe.FindStringSubmatch(stdout)
	if m == nil {
		return "", false
	}
	p := strings.TrimSpace(m[1])
	if p == "" {
		return "", false
	}
	return p, true
}

// DefaultOutputPath returns pdfPath with its extension replaced by ext.
// A path without an extension gets ext appended.
func DefaultOutputPath(pdfPath, ext string) string {
	if ext == "" {
		ext = DefaultOutputExt
	}
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ext
}

// ResolveOutputPath returns the marker path from stdout when present, and the
// default derived from pdfPath otherwise.
func ResolveOutputPath(stdout, pdfPath, ext string) string {
	if p, ok := ParseOutputPath(stdout); ok {
		return p
	}
	return DefaultOutputPath(pdfPath, ext)
}
