package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zenops/zen-ops-console/pkg/export"
)

type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

func parseOutput(raw string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case outputTable, outputJSON, outputYAML:
		return f, nil
	case "":
		return outputTable, nil
	default:
		return "", fmt.Errorf("unsupported output %q: use table, json or yaml", raw)
	}
}

// render writes v as JSON or YAML, or hands a tabwriter to table for the default output.
func render(w io.Writer, format outputFormat, v any, table func(tw *tabwriter.Writer)) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		// Round-trip through JSON so YAML keys follow the json tags.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func writeRow(tw *tabwriter.Writer, cells ...string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

func writeDataset(tw *tabwriter.Writer, ds export.Dataset) {
	writeRow(tw, ds.Headers...)
	for _, row := range ds.Rows {
		writeRow(tw, row...)
	}
	if len(ds.Footer) > 0 {
		writeRow(tw, ds.Footer...)
	}
}
