// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DiagnosisKind classifies converter output.
type DiagnosisKind string

const (
	DiagnosisNone        DiagnosisKind = ""
	DiagnosisValidation  DiagnosisKind = "validation error"
	DiagnosisNotCreated  DiagnosisKind = "excel creation error"
	DiagnosisGeneral     DiagnosisKind = "general error"
	DiagnosisInterrupted DiagnosisKind = "interrupted"
	DiagnosisUnknown     DiagnosisKind = "unknown error"
)

// The converter prefixes its own failure lines with a cross mark. Text
// without it, such as a Python traceback, is not classified.
const (
	failMark = "❌ "

	validationMarker = "VALIDATION: THERE ARE DIFFERENCES"
	notCreatedMarker = "Excel file not created"
	errorMarker      = "Error:"

	maxDiagnosisLen = 200
)

var (
	// The detail runs to the end of the output.
	notCreatedRe = regexp.MustCompile(`(?s)❌ Excel file not created.*?\n.*?Error: (.+)`)
	errorLineRe  = regexp.MustCompile(`❌ Error: ([^\n]+)`)
)

// Diagnosis is a short explanation of what went wrong in a converter run.
type Diagnosis struct {
	Kind    DiagnosisKind
	Message string
}

// String renders the diagnosis as "kind: message", or "" when clean.
func (d Diagnosis) String() string {
	if d.Kind == DiagnosisNone {
		return ""
	}
	if d.Message == "" {
		return string(d.Kind)
	}
	return string(d.Kind) + ": " + d.Message
}

// Diagnose inspects the combined output of a run. Failed runs always get a
// non-empty diagnosis. Successful runs are diagnosed only when the converter
// reported validation differences in its own reconciliation step.
func Diagnose(out Output) Diagnosis {
	combined := out.Stdout + out.Stderr

	if out.Succeeded() {
		if strings.Contains(combined, failMark+validationMarker) {
			return Diagnosis{Kind: DiagnosisValidation, Message: validationMarker}
		}
		return Diagnosis{}
	}

	switch {
	case out.ExitCode < 0:
		return Diagnosis{Kind: DiagnosisInterrupted, Message: "converter did not exit on its own"}
	case strings.Contains(combined, failMark+validationMarker):
		return Diagnosis{Kind: DiagnosisValidation, Message: validationMarker}
	case strings.Contains(combined, failMark+notCreatedMarker):
		msg := notCreatedMarker
		if m := notCreatedRe.FindStringSubmatch(combined); m != nil {
			msg = truncate(strings.TrimSpace(m[1]), maxDiagnosisLen)
		}
		return Diagnosis{Kind: DiagnosisNotCreated, Message: msg}
	case strings.Contains(combined, failMark+errorMarker):
		msg := "unknown error"
		if m := errorLineRe.FindStringSubmatch(combined); m != nil && strings.TrimSpace(m[1]) != "" {
			msg = truncate(strings.TrimSpace(m[1]), maxDiagnosisLen)
		}
		return Diagnosis{Kind: DiagnosisGeneral, Message: msg}
	default:
		return Diagnosis{Kind: DiagnosisUnknown, Message: fmt.Sprintf("process exited with code %d", out.ExitCode)}
	}
}

// truncate cuts s to n characters and marks the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
