// swatch - dominant colour extraction and naming
//
// swatch extracts the dominant colours of an image, names them after the
// closest CSS colour keywords, and serves the same features over HTTP.
package main

import (
	"os"

	"github.com/jmylchreest/swatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
