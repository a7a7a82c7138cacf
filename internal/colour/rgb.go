// Package colour provides palette extraction, colour naming and hex
// formatting for swatch.
package colour

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Tuple returns the colour as "(r, g, b)".
func (rgb RGB) Tuple() string {
	return fmt.Sprintf("(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Color returns the colour as an opaque color.RGBA.
func (rgb RGB) Color() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// distanceSq is the squared Euclidean distance between two colours in RGB space.
func (rgb RGB) distanceSq(other RGB) int {
	dr := int(rgb.R) - int(other.R)
	dg := int(rgb.G) - int(other.G)
	db := int(rgb.B) - int(other.B)
	return dr*dr + dg*dg + db*db
}

// ToRGB converts a color.Color to RGB. Alpha is discarded without
// compositing, so semi-transparent pixels keep their straight colour values.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// FormatHex formats integer channels as "#rrggbb". Channels outside
// [0,255] are rejected with ErrInvalidParameter.
func FormatHex(r, g, b int) (string, error) {
	for _, ch := range [3]struct {
		name  string
		value int
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if ch.value < 0 || ch.value > 255 {
			return "", fmt.Errorf("%w: %s channel %d outside [0,255]", ErrInvalidParameter, ch.name, ch.value)
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}.Hex(), nil
}

// ParseHex parses "#rrggbb" or "#rgb" (case-insensitive) into an RGB value.
func ParseHex(s string) (RGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 && len(s) != 4 {
		return RGB{}, fmt.Errorf("%w: hex colour %q must be #rgb or #rrggbb", ErrInvalidParameter, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: hex colour %q: %v", ErrInvalidParameter, s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustParseHex is like ParseHex but panics on malformed input. It is meant
// for compiled-in colour tables only.
func MustParseHex(s string) RGB {
	rgb, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return rgb
}
