package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
)

func newAnalyzer(t *testing.T, mutate func(*Config)) *Analyzer {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := New(cfg, nil)
	require.NoError(t, err)
	return a
}

func TestPaletteRedBlue(t *testing.T) {
	red, blue := colour.RGB{R: 255}, colour.RGB{B: 255}
	r, err := image.NewRasterFromPixels(2, 2, []colour.RGB{red, red, blue, blue})
	require.NoError(t, err)

	p, err := newAnalyzer(t, nil).Palette(context.Background(), r, 2)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	assert.Equal(t, "red", p.Entries[0].Name)
	assert.Equal(t, "#ff0000", p.Entries[0].Hex)
	assert.InDelta(t, 50.0, p.Entries[0].Proportion, 1e-9)
	assert.Equal(t, "blue", p.Entries[1].Name)
	assert.Equal(t, "#0000ff", p.Entries[1].Hex)
	assert.InDelta(t, 50.0, p.Entries[1].Proportion, 1e-9)
}

func TestPaletteSinglePixelRejectsTwoColours(t *testing.T) {
	r, err := image.NewRasterFromPixels(1, 1, []colour.RGB{{R: 9}})
	require.NoError(t, err)

	_, err = newAnalyzer(t, nil).Palette(context.Background(), r, 2)
	assert.ErrorIs(t, err, colour.ErrInvalidParameter)
}

func TestPaletteTimeout(t *testing.T) {
	pixels := make([]colour.RGB, 64*64)
	for i := range pixels {
		pixels[i] = colour.RGB{R: uint8(i), G: uint8(i >> 4), B: uint8(i >> 8)}
	}
	r, err := image.NewRasterFromPixels(64, 64, pixels)
	require.NoError(t, err)

	a := newAnalyzer(t, func(c *Config) { c.Timeout = time.Nanosecond })
	_, err = a.Palette(context.Background(), r, 8)
	assert.ErrorIs(t, err, colour.ErrResourceExceeded)
}

func TestPixelLookup(t *testing.T) {
	r, err := image.NewRasterFromPixels(2, 1, []colour.RGB{{G: 255}, {G: 255}})
	require.NoError(t, err)

	a := newAnalyzer(t, nil)
	info, err := a.Pixel(r, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "lime", info.Name)
	assert.Equal(t, "#00ff00", info.Hex)

	_, err = a.Pixel(r, 2, 0)
	assert.ErrorIs(t, err, colour.ErrInvalidParameter)
}

func TestNewRejectsBadExtractorConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extractor.MaxIterations = 0
	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, colour.ErrInvalidParameter)
}
