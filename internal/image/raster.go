package image

import (
	"fmt"
	"image"
	"slices"

	"github.com/jmylchreest/swatch/internal/colour"
)

// Raster is a decoded image flattened to row-major RGB pixels. It is
// immutable once built.
type Raster struct {
	width  int
	height int
	pixels []colour.RGB
}

// NewRaster flattens img. Alpha is dropped without compositing.
func NewRaster(img image.Image) *Raster {
	b := img.Bounds()
	r := &Raster{
		width:  b.Dx(),
		height: b.Dy(),
		pixels: make([]colour.RGB, 0, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.pixels = append(r.pixels, colour.ToRGB(img.At(x, y)))
		}
	}
	return r
}

// NewRasterFromPixels builds a width×height raster from row-major pixels.
func NewRasterFromPixels(width, height int, pixels []colour.RGB) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster dimensions %dx%d must be positive", colour.ErrInvalidInput, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels do not fill %dx%d", colour.ErrInvalidInput, len(pixels), width, height)
	}
	return &Raster{width: width, height: height, pixels: slices.Clone(pixels)}, nil
}

// Bounds returns the raster width and height.
func (r *Raster) Bounds() (width, height int) {
	return r.width, r.height
}

// Len returns the number of pixels.
func (r *Raster) Len() int {
	return len(r.pixels)
}

// At returns the pixel at (x, y), with (0, 0) at the top-left corner.
func (r *Raster) At(x, y int) (colour.RGB, error) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return colour.RGB{}, fmt.Errorf("%w: coordinate (%d, %d) outside %dx%d image", colour.ErrInvalidParameter, x, y, r.width, r.height)
	}
	return r.pixels[y*r.width+x], nil
}

// Pixels returns a copy of the flattened pixel data.
func (r *Raster) Pixels() []colour.RGB {
	return slices.Clone(r.pixels)
}
