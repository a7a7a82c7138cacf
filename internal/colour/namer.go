package colour

import (
	"math"
	"sync"
)

// NamedColour is a reference colour with its CSS keyword.
type NamedColour struct {
	Name string `json:"name" yaml:"name"`
	RGB  RGB    `json:"rgb" yaml:"rgb"`
	Hex  string `json:"hex" yaml:"hex"`
}

// Namer maps arbitrary colours to the closest named reference colour.
// A Namer is immutable and safe for concurrent use.
type Namer struct {
	colours []NamedColour
	exact   map[RGB]int
}

// NewNamer builds a Namer over the given reference colours. The slice order
// decides ties: for duplicate values and equidistant matches the earliest
// entry wins. NewNamer panics if refs is empty.
func NewNamer(refs []NamedColour) *Namer {
	if len(refs) == 0 {
		panic("colour: namer needs at least one reference colour")
	}
	n := &Namer{
		colours: make([]NamedColour, len(refs)),
		exact:   make(map[RGB]int, len(refs)),
	}
	copy(n.colours, refs)
	for i, c := range n.colours {
		if _, dup := n.exact[c.RGB]; !dup {
			n.exact[c.RGB] = i
		}
	}
	return n
}

// cssNamer parses the compiled-in CSS table once, on first use.
var cssNamer = sync.OnceValue(func() *Namer {
	refs := make([]NamedColour, len(cssColourTable))
	for i, e := range cssColourTable {
		rgb := MustParseHex(e.hex)
		refs[i] = NamedColour{Name: e.name, RGB: rgb, Hex: rgb.Hex()}
	}
	return NewNamer(refs)
})

// CSSNamer returns the shared Namer over the CSS extended colour keywords.
func CSSNamer() *Namer {
	return cssNamer()
}

// Name returns the reference name closest to c. An exact match is returned
// directly; otherwise the entry with the smallest squared RGB distance wins.
func (n *Namer) Name(c RGB) string {
	name, _ := n.Nearest(c)
	return name
}

// Nearest returns the closest reference name and its squared RGB distance.
func (n *Namer) Nearest(c RGB) (string, int) {
	if i, ok := n.exact[c]; ok {
		return n.colours[i].Name, 0
	}

	best, bestDist := 0, math.MaxInt
	for i, ref := range n.colours {
		if d := c.distanceSq(ref.RGB); d < bestDist {
			best, bestDist = i, d
		}
	}
	return n.colours[best].Name, bestDist
}

// Colours returns a copy of the reference colours in table order.
func (n *Namer) Colours() []NamedColour {
	out := make([]NamedColour, len(n.colours))
	copy(out, n.colours)
	return out
}

// Len returns the number of reference colours.
func (n *Namer) Len() int {
	return len(n.colours)
}
