// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/statement-runner/pkg/types"
)

// Format selects how WriteJobs renders records.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// WriteJobs renders jobs to w in the given format.
func WriteJobs(w io.Writer, jobs []types.Job, format Format) error {
	if jobs == nil {
		jobs = []types.Job{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(jobs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(jobs)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatTable, "":
		return writeTable(w, jobs)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, jobs []types.Job) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "no jobs")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPDF\tEXCEL\tUPDATED")
	for _, j := range jobs {
		excel := j.OutputPath
		if excel == "" {
			excel = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Status, j.SourcePath, excel, j.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
