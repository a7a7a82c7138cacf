package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
)

type namesOptions struct {
	filter  string
	format  string
	preview bool
}

func newNamesCmd(a *app) *cobra.Command {
	opts := &namesOptions{}

	cmd := &cobra.Command{
		Use:   "names",
		Short: "List the reference colour names",
		Long: `List the CSS colour keywords that palette and pixel colours are named
after, in the order used to break ties.

Examples:
  # List every name with a swatch
  swatch names --preview

  # List the grays as JSON
  swatch names --filter gray -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNames(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.filter, "filter", "", "only list names containing this text")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format (table, json, yaml)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches in the terminal")

	return cmd
}

func runNames(cmd *cobra.Command, a *app, opts *namesOptions) error {
	filter := strings.ToLower(opts.filter)
	var matched []colour.NamedColour
	for _, c := range colour.CSSNamer().Colours() {
		if strings.Contains(c.Name, filter) {
			matched = append(matched, c)
		}
	}
	a.logger.Debug("listing names", "filter", opts.filter, "matched", len(matched))

	previewer := previewerFor(cmd, "", opts.preview)

	switch opts.format {
	case "table":
		t := colourTable([]string{"Name", "RGB", "HEX"}, previewer)
		for _, c := range matched {
			addColourRow(t, previewer, c.RGB, []string{colour.DisplayName(c.Name), c.RGB.Tuple(), colour.DisplayHex(c.Hex)})
		}
		return writeOutput(cmd, "", []byte(t.Render()))
	case "json", "yaml":
		data, err := encode(matched, opts.format)
		if err != nil {
			return err
		}
		return writeOutput(cmd, "", data)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", opts.format)
	}
}
