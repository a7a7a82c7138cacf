package colour

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSSNamerTable(t *testing.T) {
	n := CSSNamer()
	require.Equal(t, 147, n.Len())
	assert.Same(t, n, CSSNamer(), "table should be built once")

	colours := n.Colours()
	for i := 1; i < len(colours); i++ {
		assert.Less(t, colours[i-1].Name, colours[i].Name, "table must stay in alphabetical order")
	}
}

func TestNamerExactMatches(t *testing.T) {
	n := CSSNamer()
	for _, ref := range n.Colours() {
		name, dist := n.Nearest(ref.RGB)
		assert.Zerof(t, dist, "%s should be an exact match", ref.Name)

		got, err := ParseHex(ref.Hex)
		require.NoError(t, err)
		assert.Equal(t, ref.RGB, got)

		// Duplicate values resolve to the first spelling in table order.
		first := ""
		for _, c := range n.Colours() {
			if c.RGB == ref.RGB {
				first = c.Name
				break
			}
		}
		assert.Equal(t, first, name)
	}
}

func TestNamerKnownColours(t *testing.T) {
	n := CSSNamer()
	tests := []struct {
		rgb  RGB
		want string
	}{
		{rgb: RGB{R: 255}, want: "red"},
		{rgb: RGB{B: 255}, want: "blue"},
		{rgb: RGB{G: 255}, want: "lime"},
		{rgb: RGB{G: 128}, want: "green"},
		{rgb: RGB{G: 255, B: 255}, want: "aqua"},
		{rgb: RGB{R: 255, B: 255}, want: "fuchsia"},
		{rgb: RGB{R: 128, G: 128, B: 128}, want: "gray"},
		{rgb: RGB{R: 250, G: 2, B: 3}, want: "red"},
		{rgb: RGB{R: 1, G: 1, B: 1}, want: "black"},
		{rgb: RGB{R: 254, G: 254, B: 254}, want: "white"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Name(tt.rgb))
		})
	}
}

func TestNamerFallbackDistance(t *testing.T) {
	n := CSSNamer()
	name, dist := n.Nearest(RGB{R: 250, G: 0, B: 0})
	assert.Equal(t, "red", name)
	assert.Equal(t, 25, dist)
}

func TestNamerTieBreaksOnTableOrder(t *testing.T) {
	n := NewNamer([]NamedColour{
		{Name: "low", RGB: RGB{R: 10}},
		{Name: "high", RGB: RGB{R: 20}},
	})
	assert.Equal(t, "low", n.Name(RGB{R: 15}))

	n = NewNamer([]NamedColour{
		{Name: "high", RGB: RGB{R: 20}},
		{Name: "low", RGB: RGB{R: 10}},
	})
	assert.Equal(t, "high", n.Name(RGB{R: 15}))
}

func TestNewNamerRejectsEmptyTable(t *testing.T) {
	assert.Panics(t, func() { NewNamer(nil) })
}

func TestNamerConcurrentUse(t *testing.T) {
	n := CSSNamer()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range 256 {
				_ = n.Name(RGB{R: uint8(v), G: uint8(i * 16), B: uint8(255 - v)})
			}
		}()
	}
	wg.Wait()
}
