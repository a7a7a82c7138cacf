package colour

import "fmt"

// PixelSource is a raster that can report the colour at a coordinate.
type PixelSource interface {
	Bounds() (width, height int)
	At(x, y int) (RGB, error)
}

// PixelInfo describes a single pixel's colour.
type PixelInfo struct {
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
	Name string `json:"name" yaml:"name"`
	RGB  RGB    `json:"rgb" yaml:"rgb"`
	Hex  string `json:"hex" yaml:"hex"`
}

// LookupPixel reads the pixel at (x, y) and names it.
func LookupPixel(src PixelSource, x, y int, namer *Namer) (PixelInfo, error) {
	w, h := src.Bounds()
	if x < 0 || x >= w || y < 0 || y >= h {
		return PixelInfo{}, fmt.Errorf("%w: coordinate (%d, %d) outside %dx%d image", ErrInvalidParameter, x, y, w, h)
	}

	rgb, err := src.At(x, y)
	if err != nil {
		return PixelInfo{}, err
	}

	return PixelInfo{
		X:    x,
		Y:    y,
		Name: namer.Name(rgb),
		RGB:  rgb,
		Hex:  rgb.Hex(),
	}, nil
}

// CentrePoint returns the default pick coordinate, the image centre.
func CentrePoint(src PixelSource) (x, y int) {
	w, h := src.Bounds()
	return w / 2, h / 2
}
