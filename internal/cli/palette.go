package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
)

type paletteOptions struct {
	format  string
	output  string
	preview bool
}

func newPaletteCmd(a *app) *cobra.Command {
	opts := &paletteOptions{}

	cmd := &cobra.Command{
		Use:   "palette <image|url>",
		Short: "Extract the dominant colours of an image",
		Long: `Extract the dominant colours of an image and name each one.

Colours are found with k-means clustering using a fixed seed, so the same
image and colour count always give the same palette. Each colour is named
after the closest CSS colour keyword and reported with its share of the
image, largest first.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Extract 8 colours (default) as a table
  swatch palette photo.jpg

  # Extract 5 colours with terminal swatches
  swatch palette -c 5 --preview photo.png

  # Output as JSON
  swatch palette -f json photo.jpg

  # Fetch a remote image and save hex codes to a file
  swatch palette -f hex -o palette.txt https://example.com/photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().IntP(keyColours, "c", 8, "number of colours to extract")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format (table, hex, rgb, json, yaml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches in the terminal")

	return cmd
}

func runPalette(cmd *cobra.Command, a *app, opts *paletteOptions, path string) error {
	an, r, err := a.load(cmd, path)
	if err != nil {
		return err
	}
	p, err := a.palette(cmd, an, r)
	if err != nil {
		return err
	}

	out, err := formatPalette(p, opts.format, previewerFor(cmd, opts.output, opts.preview))
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, []byte(out))
}

// formatPalette renders the palette in the requested format. A nil
// previewer disables swatches.
func formatPalette(p *colour.Palette, format string, previewer *colour.Previewer) (string, error) {
	switch format {
	case "table":
		t := colourTable([]string{"Name", "RGB", "HEX", "Proportion (%)"}, previewer)
		for _, e := range p.Entries {
			addColourRow(t, previewer, e.RGB, []string{
				colour.DisplayName(e.Name),
				e.RGB.Tuple(),
				colour.DisplayHex(e.Hex),
				fmt.Sprintf("%.2f", e.Proportion),
			})
		}
		return t.Render(), nil
	case "hex":
		hexes := p.ToHex()
		if previewer != nil {
			for i, e := range p.Entries {
				hexes[i] = previewer.WithHex(e.RGB, swatchWidth)
			}
		}
		return strings.Join(hexes, "\n") + "\n", nil
	case "rgb":
		rgbs := make([]string, len(p.Entries))
		for i, e := range p.Entries {
			rgbs[i] = e.RGB.String()
			if previewer != nil {
				rgbs[i] = previewer.Swatch(e.RGB, swatchWidth) + " " + rgbs[i]
			}
		}
		return strings.Join(rgbs, "\n") + "\n", nil
	case "json":
		data, err := p.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := encode(p, format)
		return string(data), err
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: table, hex, rgb, json, yaml)", format)
	}
}
