package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
)

type pixelOptions struct {
	x, y    int
	format  string
	output  string
	preview bool
}

func newPixelCmd(a *app) *cobra.Command {
	opts := &pixelOptions{}

	cmd := &cobra.Command{
		Use:   "pixel <image|url>",
		Short: "Name the colour of a single pixel",
		Long: `Report the colour of the pixel at (x, y) and its closest CSS colour name.

Coordinates start at the top-left corner. Without --x and --y the centre of
the image is used.

Examples:
  # Name the colour at the centre of the image
  swatch pixel photo.jpg

  # Name the colour at (10, 20) as JSON
  swatch pixel --x 10 --y 20 -f json photo.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPixel(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.x, "x", -1, "x coordinate (default: image centre)")
	cmd.Flags().IntVar(&opts.y, "y", -1, "y coordinate (default: image centre)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format (table, json, yaml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show a colour swatch in the terminal")

	return cmd
}

func runPixel(cmd *cobra.Command, a *app, opts *pixelOptions, path string) error {
	an, r, err := a.load(cmd, path)
	if err != nil {
		return err
	}

	x, y := colour.CentrePoint(r)
	if cmd.Flags().Changed("x") {
		x = opts.x
	}
	if cmd.Flags().Changed("y") {
		y = opts.y
	}

	info, err := an.Pixel(r, x, y)
	if err != nil {
		return err
	}

	out, err := formatPixel(info, opts.format, previewerFor(cmd, opts.output, opts.preview))
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, []byte(out))
}

func formatPixel(info colour.PixelInfo, format string, previewer *colour.Previewer) (string, error) {
	switch format {
	case "table":
		t := colourTable([]string{"X", "Y", "Name", "RGB", "HEX"}, previewer)
		addColourRow(t, previewer, info.RGB, []string{
			strconv.Itoa(info.X),
			strconv.Itoa(info.Y),
			colour.DisplayName(info.Name),
			info.RGB.Tuple(),
			colour.DisplayHex(info.Hex),
		})
		return t.Render(), nil
	case "json", "yaml":
		data, err := encode(info, format)
		return string(data), err
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", format)
	}
}
