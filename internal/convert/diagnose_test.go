// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"
	"testing"
)

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name     string
		out      Output
		wantKind DiagnosisKind
		wantMsg  string
	}{
		{
			name: "clean success",
			out:  Output{Stdout: "Excel file created successfully -> a.xlsx\n"},
		},
		{
			name:     "success with validation differences",
			out:      Output{Stdout: "❌ VALIDATION: THERE ARE DIFFERENCES\nExcel file created successfully -> a.xlsx\n"},
			wantKind: DiagnosisValidation,
			wantMsg:  validationMarker,
		},
		{
			name:     "validation failure",
			out:      Output{Stdout: "❌ VALIDATION: THERE ARE DIFFERENCES\n", ExitCode: 1},
			wantKind: DiagnosisValidation,
			wantMsg:  validationMarker,
		},
		{
			name:     "excel not created with detail",
			out:      Output{Stdout: "❌ Excel file not created\n   Error: permission denied on out.xlsx\n", ExitCode: 1},
			wantKind: DiagnosisNotCreated,
			wantMsg:  "permission denied on out.xlsx",
		},
		{
			name:     "excel not created without detail",
			out:      Output{Stdout: "❌ Excel file not created", ExitCode: 1},
			wantKind: DiagnosisNotCreated,
			wantMsg:  "Excel file not created",
		},
		{
			name:     "general error on stderr",
			out:      Output{Stderr: "Traceback...\n❌ Error: no pages found\n", ExitCode: 2},
			wantKind: DiagnosisGeneral,
			wantMsg:  "no pages found",
		},
		{
			name:     "excel not created keeps multi-line detail",
			out:      Output{Stdout: "❌ Excel file not created\n   Error: sheet 2 failed\n  totals mismatch\n", ExitCode: 1},
			wantKind: DiagnosisNotCreated,
			wantMsg:  "sheet 2 failed\n  totals mismatch",
		},
		{
			name:     "unmarked traceback is not a general error",
			out:      Output{Stderr: "Traceback (most recent call last):\nValueError: bad table\n", ExitCode: 1},
			wantKind: DiagnosisUnknown,
			wantMsg:  "process exited with code 1",
		},
		{
			name:     "unmarked not-created text",
			out:      Output{Stdout: "Excel file not created yet, retrying\n", ExitCode: 4},
			wantKind: DiagnosisUnknown,
			wantMsg:  "process exited with code 4",
		},
		{
			name:     "unmarked validation text on success",
			out:      Output{Stdout: "checking VALIDATION: THERE ARE DIFFERENCES rules\n"},
		},
		{
			name:     "unknown error",
			out:      Output{Stderr: "corrupt PDF", ExitCode: 1},
			wantKind: DiagnosisUnknown,
			wantMsg:  "process exited with code 1",
		},
		{
			name:     "killed",
			out:      Output{ExitCode: -1},
			wantKind: DiagnosisInterrupted,
			wantMsg:  "converter did not exit on its own",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose(tt.out)
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestDiagnose_TruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Diagnose(Output{Stderr: "❌ Error: " + long + "\n", ExitCode: 1})
	if len(got.Message) != maxDiagnosisLen+3 {
		t.Errorf("message length = %d, want %d", len(got.Message), maxDiagnosisLen+3)
	}
	if !strings.HasSuffix(got.Message, "...") {
		t.Errorf("truncated message should end with ellipsis, got %q", got.Message[len(got.Message)-5:])
	}
}

func TestDiagnose_TruncatesByCharacter(t *testing.T) {
	long := strings.Repeat("é", 300)
	got := Diagnose(Output{Stdout: "❌ Error: " + long, ExitCode: 1})
	want := strings.Repeat("é", maxDiagnosisLen) + "..."
	if got.Message != want {
		t.Errorf("message has %d runes, want %d", len([]rune(got.Message)), len([]rune(want)))
	}
}

func TestDiagnosisString(t *testing.T) {
	if s := (Diagnosis{}).String(); s != "" {
		t.Errorf("empty diagnosis renders as %q", s)
	}
	d := Diagnosis{Kind: DiagnosisGeneral, Message: "boom"}
	if s := d.String(); s != "general error: boom" {
		t.Errorf("got %q", s)
	}
	if s := (Diagnosis{Kind: DiagnosisUnknown}).String(); s != "unknown error" {
		t.Errorf("got %q", s)
	}
}
