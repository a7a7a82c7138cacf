// Package cli provides the command-line interface for swatch.
package cli

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/analyzer"
	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/logging"
	"github.com/jmylchreest/swatch/internal/version"
)

// app carries state shared by the commands of one root command.
type app struct {
	configFile string
	cfg        Config
	logger     hclog.Logger
}

// NewRootCmd builds the swatch command tree. Each call returns an
// independent tree with its own configuration.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "swatch",
		Short: "Extract and name the dominant colours of an image",
		Long: `swatch finds the dominant colours of an image with seeded k-means
clustering, names each one after its closest CSS colour keyword, and
reports how much of the image it covers.

It can also name the colour of a single pixel, draw the proportions as a
pie chart, and serve the same features over HTTP.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default: ./swatch.yaml or $XDG_CONFIG_HOME/swatch/swatch.yaml)")
	pf.BoolP(keyVerbose, "v", false, "enable verbose output")
	pf.BoolP(keyQuiet, "q", false, "suppress non-error output")
	pf.String(keyLogFormat, "text", "log format (text, json)")
	pf.Uint64(keySeed, colour.DefaultSeed, "random seed for clustering")
	pf.Duration(keyTimeout, analyzer.DefaultTimeout, "maximum time for one extraction (0 disables)")
	pf.Int(keyMaxPixels, image.DefaultMaxPixels, "reject images with more pixels than this (0 disables)")
	pf.Int(keyMaxDimension, 0, "downscale images whose longer side exceeds this before clustering (0 disables)")
	pf.String(keyCacheDir, "", "keep downloaded remote images in this directory")
	pf.Bool(keyRefreshCache, false, "re-download remote images already in the cache")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newPaletteCmd(a),
		newPixelCmd(a),
		newChartCmd(a),
		newNamesCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup resolves configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v := newViper()
	if err := readConfigFile(v, a.configFile); err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New("swatch", logging.Options{
		Verbose: cfg.Verbose,
		Quiet:   cfg.Quiet,
		Format:  cfg.LogFormat,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger

	if f := v.ConfigFileUsed(); f != "" {
		a.logger.Debug("loaded config file", "path", f)
	}
	return nil
}

// newAnalyzer builds the pipeline for the current configuration.
func (a *app) newAnalyzer(mutate func(*analyzer.Config)) (*analyzer.Analyzer, error) {
	cfg := a.cfg.Analyzer()
	if mutate != nil {
		mutate(&cfg)
	}
	return analyzer.New(cfg, a.logger.Named("analyzer"))
}

// load builds the pipeline and loads the image at path.
func (a *app) load(cmd *cobra.Command, path string) (*analyzer.Analyzer, *image.Raster, error) {
	an, err := a.newAnalyzer(nil)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	r, err := an.Load(cmd.Context(), path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load image: %w", err)
	}
	w, h := r.Bounds()
	a.logger.Debug("image loaded", "path", path, "width", w, "height", h, "elapsed", time.Since(start))
	return an, r, nil
}

// palette extracts the configured number of colours from r.
func (a *app) palette(cmd *cobra.Command, an *analyzer.Analyzer, r *image.Raster) (*colour.Palette, error) {
	a.logger.Debug("extracting colours", "colours", a.cfg.Colours, "seed", a.cfg.Extractor.Seed)
	p, err := an.Palette(cmd.Context(), r, a.cfg.Colours)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("extracted colours", "colours", p.Len())
	return p, nil
}
