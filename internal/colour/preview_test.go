package colour

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestPreviewerPlainOutput(t *testing.T) {
	p := NewPreviewer(&bytes.Buffer{})
	assert.False(t, p.Enabled())
	assert.Equal(t, "    ", p.Swatch(RGB{R: 255}, 0))
	assert.Equal(t, "    #ff0000", p.WithHex(RGB{R: 255}, 3))
}

func TestPreviewerTrueColour(t *testing.T) {
	p := &Previewer{profile: termenv.TrueColor}
	assert.True(t, p.Enabled())

	s := p.Swatch(RGB{R: 255}, 2)
	assert.True(t, strings.HasPrefix(s, "\x1b["))
	assert.Contains(t, s, "48;2;255;0;0")
	assert.True(t, strings.HasSuffix(p.WithHex(RGB{B: 255}, 2), " #0000ff"))
}
