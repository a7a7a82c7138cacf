package colour

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultSwatchWidth = 4

// Previewer renders colour swatches for a terminal. When the output is not
// a terminal, or colour is disabled via NO_COLOR, swatches render as
// plain spaces so the surrounding text still lines up.
type Previewer struct {
	profile termenv.Profile
}

// NewPreviewer detects the colour capability of w.
func NewPreviewer(w io.Writer) *Previewer {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return &Previewer{profile: termenv.Ascii}
	}
	return &Previewer{profile: termenv.NewOutput(f).EnvColorProfile()}
}

// Enabled reports whether swatches carry colour.
func (p *Previewer) Enabled() bool {
	return p.profile != termenv.Ascii
}

// Swatch returns a solid block of the given width in colour c.
func (p *Previewer) Swatch(c RGB, width int) string {
	if width <= 0 {
		width = defaultSwatchWidth
	}
	return termenv.String(strings.Repeat(" ", width)).
		Background(p.profile.Color(c.Hex())).
		String()
}

// WithHex formats a swatch followed by the colour's hex code.
func (p *Previewer) WithHex(c RGB, width int) string {
	return fmt.Sprintf("%s %s", p.Swatch(c, width), c.Hex())
}
