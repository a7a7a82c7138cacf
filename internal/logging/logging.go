// Package logging builds the hclog loggers used across swatch.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Options selects logger verbosity and format.
type Options struct {
	Verbose bool
	Quiet   bool

	// Format is "text" (default) or "json".
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns the root logger for opts. Verbose enables debug output,
// quiet limits output to errors, and the default level is warn so that
// CLI output stays clean.
func New(name string, opts Options) (hclog.Logger, error) {
	level := hclog.Warn
	switch {
	case opts.Quiet:
		level = hclog.Error
	case opts.Verbose:
		level = hclog.Debug
	}

	var jsonFormat bool
	switch strings.ToLower(opts.Format) {
	case "", "text":
	case "json":
		jsonFormat = true
	default:
		return nil, fmt.Errorf("invalid log format: %s (valid: text, json)", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	color := hclog.ColorOff
	if _, ok := out.(*os.File); ok && !jsonFormat {
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Output:     out,
		Level:      level,
		JSONFormat: jsonFormat,
		Color:      color,
	}), nil
}
