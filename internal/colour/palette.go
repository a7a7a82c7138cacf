package colour

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Entry is one named colour of an extracted palette.
type Entry struct {
	Name       string  `json:"name" yaml:"name"`
	RGB        RGB     `json:"rgb" yaml:"rgb"`
	Hex        string  `json:"hex" yaml:"hex"`
	Count      int     `json:"count" yaml:"count"`
	Proportion float64 `json:"proportion" yaml:"proportion"`
}

// Palette is an ordered list of entries, most dominant first.
type Palette struct {
	Entries []Entry `json:"colours" yaml:"colours"`
	Total   int     `json:"total_pixels" yaml:"total_pixels"`
}

// BuildPalette names each cluster and converts its count into a percentage
// of total. Entries are sorted by proportion, largest first; equal
// proportions keep the cluster order.
func BuildPalette(clusters []Cluster, total int, namer *Namer) (*Palette, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total pixel count must be positive, got %d", ErrInvalidParameter, total)
	}

	entries := make([]Entry, len(clusters))
	for i, c := range clusters {
		entries[i] = Entry{
			Name:       namer.Name(c.Centroid),
			RGB:        c.Centroid,
			Hex:        c.Centroid.Hex(),
			Count:      c.Count,
			Proportion: float64(c.Count) * 100 / float64(total),
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Proportion > b.Proportion:
			return -1
		case a.Proportion < b.Proportion:
			return 1
		default:
			return 0
		}
	})

	return &Palette{Entries: entries, Total: total}, nil
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Entries)
}

// Slice is one segment of a proportion chart.
type Slice struct {
	Value float64 `json:"value" yaml:"value"`
	Hex   string  `json:"hex" yaml:"hex"`
}

// Slices returns the chart segments in palette order.
func (p *Palette) Slices() []Slice {
	out := make([]Slice, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = Slice{Value: e.Proportion, Hex: e.Hex}
	}
	return out
}

// ToHex returns the hex code of every entry in order.
func (p *Palette) ToHex() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Hex
	}
	return out
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
