package colour

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaletteTwoColourScenario(t *testing.T) {
	clusters := []Cluster{
		{Centroid: RGB{R: 255}, Count: 2},
		{Centroid: RGB{B: 255}, Count: 2},
	}

	p, err := BuildPalette(clusters, 4, CSSNamer())
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	assert.Equal(t, Entry{Name: "red", RGB: RGB{R: 255}, Hex: "#ff0000", Count: 2, Proportion: 50}, p.Entries[0])
	assert.Equal(t, Entry{Name: "blue", RGB: RGB{B: 255}, Hex: "#0000ff", Count: 2, Proportion: 50}, p.Entries[1])
}

func TestBuildPaletteSortsDescendingAndStable(t *testing.T) {
	clusters := []Cluster{
		{Centroid: RGB{R: 1}, Count: 10},
		{Centroid: RGB{R: 2}, Count: 30},
		{Centroid: RGB{R: 3}, Count: 10},
		{Centroid: RGB{R: 4}, Count: 50},
	}

	p, err := BuildPalette(clusters, 100, CSSNamer())
	require.NoError(t, err)

	var got []uint8
	for _, e := range p.Entries {
		got = append(got, e.RGB.R)
	}
	assert.Equal(t, []uint8{4, 2, 1, 3}, got)
}

func TestBuildPaletteProportionsSumTo100(t *testing.T) {
	pixels := noisyPixels(5, 4001, RGB{R: 180, G: 40, B: 40}, RGB{R: 40, G: 160, B: 90}, RGB{R: 240, G: 230, B: 200})

	for _, k := range []int{2, 3, 6, 9} {
		clusters, err := newTestExtractor().Extract(context.Background(), pixels, k)
		require.NoError(t, err)

		p, err := BuildPalette(clusters, len(pixels), CSSNamer())
		require.NoError(t, err)

		sum := 0.0
		for i, e := range p.Entries {
			sum += e.Proportion
			assert.GreaterOrEqual(t, e.Proportion, 0.0)
			assert.LessOrEqual(t, e.Proportion, 100.0)
			if i > 0 {
				assert.GreaterOrEqual(t, p.Entries[i-1].Proportion, e.Proportion)
			}
		}
		assert.InDeltaf(t, 100.0, sum, 0.01, "k=%d", k)
	}
}

func TestBuildPaletteRejectsEmptyTotal(t *testing.T) {
	_, err := BuildPalette(nil, 0, CSSNamer())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPaletteSlicesAndHex(t *testing.T) {
	p := &Palette{Entries: []Entry{
		{Name: "red", Hex: "#ff0000", Proportion: 75},
		{Name: "blue", Hex: "#0000ff", Proportion: 25},
	}, Total: 4}

	assert.Equal(t, []Slice{{Value: 75, Hex: "#ff0000"}, {Value: 25, Hex: "#0000ff"}}, p.Slices())
	assert.Equal(t, []string{"#ff0000", "#0000ff"}, p.ToHex())
}

func TestPaletteToJSON(t *testing.T) {
	p := &Palette{Entries: []Entry{{Name: "red", RGB: RGB{R: 255}, Hex: "#ff0000", Count: 1, Proportion: 100}}, Total: 1}

	data, err := p.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 1, decoded["total_pixels"])

	colours, ok := decoded["colours"].([]any)
	require.True(t, ok)
	require.Len(t, colours, 1)
	assert.Equal(t, "#ff0000", colours[0].(map[string]any)["hex"])
}
