// Package chart renders palette proportions as a pie chart image.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/jmylchreest/swatch/internal/colour"
)

const (
	// DefaultSize is the default edge length of the square chart in pixels.
	DefaultSize = 480

	minSize = 16
	maxSize = 4096

	// startAngle places the first slice at twelve o'clock; slices then
	// run counter-clockwise.
	startAngle = math.Pi / 2

	// arcStep is the largest angle approximated by one line segment.
	arcStep = math.Pi / 180
)

// Options controls pie chart rendering.
type Options struct {
	// Size is the width and height of the image. Zero means DefaultSize.
	Size int

	// Background fills the area outside the pie. Nil means transparent.
	Background color.Color
}

// RenderPie draws one wedge per slice, sized by Value and filled with Hex.
// Slices with a zero value are skipped.
func RenderPie(slices []colour.Slice, opts Options) (*image.RGBA, error) {
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < minSize || size > maxSize {
		return nil, fmt.Errorf("%w: chart size %d outside [%d,%d]", colour.ErrInvalidParameter, size, minSize, maxSize)
	}

	total := 0.0
	fills := make([]color.RGBA, len(slices))
	for i, s := range slices {
		if s.Value < 0 || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, fmt.Errorf("%w: slice %d has invalid value %v", colour.ErrInvalidParameter, i, s.Value)
		}
		rgb, err := colour.ParseHex(s.Hex)
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", i, err)
		}
		fills[i] = rgb.Color()
		total += s.Value
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: chart needs at least one non-zero slice", colour.ErrInvalidParameter)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if opts.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	cx, cy := float64(size)/2, float64(size)/2
	radius := float64(size)/2 - 1

	z := vector.NewRasterizer(size, size)
	angle := startAngle
	for i, s := range slices {
		if s.Value == 0 {
			continue
		}
		sweep := s.Value / total * 2 * math.Pi

		z.Reset(size, size)
		z.DrawOp = draw.Over
		z.MoveTo(float32(cx), float32(cy))
		steps := max(1, int(math.Ceil(sweep/arcStep)))
		for step := 0; step <= steps; step++ {
			a := angle + sweep*float64(step)/float64(steps)
			z.LineTo(float32(cx+radius*math.Cos(a)), float32(cy-radius*math.Sin(a)))
		}
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), image.NewUniform(fills[i]), image.Point{})

		angle += sweep
	}

	return dst, nil
}

// WritePNG renders the pie chart and encodes it as PNG to w.
func WritePNG(w io.Writer, slices []colour.Slice, opts Options) error {
	img, err := RenderPie(slices, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}
