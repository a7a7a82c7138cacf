// Package analyzer wires image loading, palette extraction and colour
// naming into the single pipeline shared by the CLI and the HTTP server.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
)

// DefaultTimeout bounds a single palette extraction.
const DefaultTimeout = 30 * time.Second

// Config holds the pipeline settings.
type Config struct {
	Extractor colour.ExtractorConfig
	Image     image.Options

	// Timeout bounds each extraction. Zero disables the deadline.
	Timeout time.Duration
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Extractor: colour.DefaultExtractorConfig(),
		Image:     image.DefaultOptions(),
		Timeout:   DefaultTimeout,
	}
}

// Analyzer runs palette extraction and pixel lookups.
type Analyzer struct {
	extractor colour.Extractor
	namer     *colour.Namer
	loader    *image.Loader
	timeout   time.Duration
	logger    hclog.Logger
}

// New builds an Analyzer. A nil logger discards output.
func New(cfg Config, logger hclog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	extractor, err := colour.NewExtractor(cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("invalid extractor configuration: %w", err)
	}

	imgOpts := cfg.Image
	imgOpts.Logger = logger.Named("loader")

	return &Analyzer{
		extractor: extractor,
		namer:     colour.CSSNamer(),
		loader:    image.NewLoader(imgOpts),
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

// Namer returns the colour namer used for palettes and pixels.
func (a *Analyzer) Namer() *colour.Namer {
	return a.namer
}

// Load reads an image from a path or HTTPS URL.
func (a *Analyzer) Load(ctx context.Context, path string) (*image.Raster, error) {
	return a.loader.Load(ctx, path)
}

// Decode decodes uploaded image bytes.
func (a *Analyzer) Decode(data []byte) (*image.Raster, error) {
	return a.loader.Decode(data)
}

// Palette extracts k dominant colours from r and names them.
func (a *Analyzer) Palette(ctx context.Context, r *image.Raster, k int) (*colour.Palette, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	w, h := r.Bounds()
	a.logger.Debug("extracting palette", "width", w, "height", h, "colours", k)
	start := time.Now()

	clusters, err := a.extractor.Extract(ctx, r.Pixels(), k)
	if err != nil {
		a.logger.Debug("extraction failed", "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}

	palette, err := colour.BuildPalette(clusters, r.Len(), a.namer)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("palette extracted", "colours", palette.Len(), "elapsed", time.Since(start))
	return palette, nil
}

// Pixel names the colour at (x, y).
func (a *Analyzer) Pixel(r *image.Raster, x, y int) (colour.PixelInfo, error) {
	info, err := colour.LookupPixel(r, x, y, a.namer)
	if err != nil {
		return colour.PixelInfo{}, err
	}
	a.logger.Debug("pixel lookup", "x", x, "y", y, "hex", info.Hex, "name", info.Name)
	return info, nil
}
