package cli

import (
	"bytes"
	"image/color"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/chart"
)

type chartOptions struct {
	output      string
	size        int
	transparent bool
}

func newChartCmd(a *app) *cobra.Command {
	opts := &chartOptions{}

	cmd := &cobra.Command{
		Use:   "chart <image|url>",
		Short: "Draw palette proportions as a pie chart",
		Long: `Extract the dominant colours of an image and draw their proportions as
a PNG pie chart. Each slice is filled with its colour, starting at twelve
o'clock and running counter-clockwise from the most dominant.

Examples:
  # Write an 8 colour chart to chart.png
  swatch chart -o chart.png photo.jpg

  # Write a 5 colour, 256 pixel chart to stdout
  swatch chart -c 5 --size 256 -o - photo.jpg > chart.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().IntP(keyColours, "c", 8, "number of colours to extract")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG file, or - for stdout")
	cmd.Flags().IntVar(&opts.size, "size", chart.DefaultSize, "chart width and height in pixels")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "leave the background transparent")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runChart(cmd *cobra.Command, a *app, opts *chartOptions, path string) error {
	an, r, err := a.load(cmd, path)
	if err != nil {
		return err
	}
	p, err := a.palette(cmd, an, r)
	if err != nil {
		return err
	}

	chartOpts := chart.Options{Size: opts.size, Background: color.White}
	if opts.transparent {
		chartOpts.Background = nil
	}

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, p.Slices(), chartOpts); err != nil {
		return err
	}
	a.logger.Debug("rendered chart", "slices", p.Len(), "size", opts.size, "bytes", buf.Len())
	return writeOutput(cmd, opts.output, buf.Bytes())
}
