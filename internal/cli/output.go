package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/swatch/internal/colour"
)

// swatchWidth is the width of terminal colour previews.
const swatchWidth = 4

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - output is meant to be readable
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// encode renders v as JSON or YAML.
func encode(v any, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert to YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// previewerFor returns the swatch renderer for output going to path, or
// nil when that output cannot show colour. Files never get colour.
func previewerFor(cmd *cobra.Command, path string, enabled bool) *colour.Previewer {
	if !enabled || (path != "" && path != "-") {
		return nil
	}
	p := colour.NewPreviewer(cmd.OutOrStdout())
	if !p.Enabled() {
		return nil
	}
	return p
}

// colourTable builds a table of named colours with optional swatches.
func colourTable(headers []string, previewer *colour.Previewer) *Table {
	t := NewTable(headers)
	if previewer != nil {
		t.SetPrefixWidth(swatchWidth)
	}
	return t
}

func addColourRow(t *Table, previewer *colour.Previewer, c colour.RGB, row []string) {
	if previewer == nil {
		t.AddRow(row)
		return
	}
	t.AddPrefixedRow(previewer.Swatch(c, swatchWidth), row)
}
