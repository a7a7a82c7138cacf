package colour

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidSource is a PixelSource of a single colour.
type solidSource struct {
	w, h int
	c    RGB
}

func (s solidSource) Bounds() (int, int) { return s.w, s.h }

func (s solidSource) At(x, y int) (RGB, error) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return RGB{}, fmt.Errorf("%w: out of range", ErrInvalidParameter)
	}
	return s.c, nil
}

func TestLookupPixelSolidLime(t *testing.T) {
	src := solidSource{w: 5, h: 3, c: RGB{G: 255}}

	info, err := LookupPixel(src, 2, 1, CSSNamer())
	require.NoError(t, err)
	assert.Equal(t, PixelInfo{X: 2, Y: 1, Name: "lime", RGB: RGB{G: 255}, Hex: "#00ff00"}, info)
}

func TestLookupPixelOutOfBounds(t *testing.T) {
	src := solidSource{w: 2, h: 2}
	for _, pt := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		_, err := LookupPixel(src, pt[0], pt[1], CSSNamer())
		assert.ErrorIsf(t, err, ErrInvalidParameter, "point %v", pt)
	}
}

func TestCentrePoint(t *testing.T) {
	x, y := CentrePoint(solidSource{w: 7, h: 4})
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "InvalidInput", ErrorKind(fmt.Errorf("decode: %w", ErrInvalidInput)))
	assert.Equal(t, "InvalidParameter", ErrorKind(fmt.Errorf("k: %w", ErrInvalidParameter)))
	assert.Equal(t, "ResourceExceeded", ErrorKind(fmt.Errorf("big: %w", ErrResourceExceeded)))
	assert.Equal(t, "Internal", ErrorKind(fmt.Errorf("boom")))
	assert.Empty(t, ErrorKind(nil))
}
