package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/swatch/internal/analyzer"
	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/server"
)

const envPrefix = "SWATCH"

// Configuration keys. Keys that are also flags share the flag's name.
const (
	keyColours       = "colours"
	keyMinColours    = "min-colours"
	keyMaxColours    = "max-colours"
	keySeed          = "seed"
	keyRestarts      = "restarts"
	keyMaxIterations = "max-iterations"
	keyTolerance     = "tolerance"
	keyTimeout       = "timeout"
	keyMaxPixels     = "max-pixels"
	keyMaxDimension  = "max-dimension"
	keyCacheDir      = "cache-dir"
	keyRefreshCache  = "refresh-cache"
	keyLogFormat     = "log-format"
	keyVerbose       = "verbose"
	keyQuiet         = "quiet"
	keyAddr          = "addr"
	keyMaxUpload     = "max-upload-bytes"
	keyThemeAccent   = "theme.accent"
	keyThemeCard     = "theme.card"
)

// flagKeys are the flags whose values may also come from the config file
// or the environment.
var flagKeys = []string{
	keyColours, keySeed, keyTimeout, keyMaxPixels, keyMaxDimension, keyCacheDir,
	keyRefreshCache, keyLogFormat, keyVerbose, keyQuiet, keyAddr, keyMaxUpload,
}

// Config is the resolved configuration for one command invocation.
type Config struct {
	Colours    int
	MinColours int
	MaxColours int

	Extractor colour.ExtractorConfig
	Timeout   time.Duration

	MaxPixels    int
	MaxDimension int
	CacheDir     string
	RefreshCache bool

	LogFormat string
	Verbose   bool
	Quiet     bool

	Server server.Config
}

// newViper returns a viper instance with defaults and SWATCH_* environment
// overrides, e.g. SWATCH_MAX_PIXELS or SWATCH_THEME_ACCENT.
func newViper() *viper.Viper {
	v := viper.New()

	ext := colour.DefaultExtractorConfig()
	srv := server.DefaultConfig()

	v.SetDefault(keyColours, server.DefaultColours)
	v.SetDefault(keyMinColours, server.MinColours)
	v.SetDefault(keyMaxColours, server.MaxColours)
	v.SetDefault(keySeed, ext.Seed)
	v.SetDefault(keyRestarts, ext.Restarts)
	v.SetDefault(keyMaxIterations, ext.MaxIterations)
	v.SetDefault(keyTolerance, ext.Tolerance)
	v.SetDefault(keyTimeout, analyzer.DefaultTimeout)
	v.SetDefault(keyMaxPixels, image.DefaultMaxPixels)
	v.SetDefault(keyMaxDimension, 0)
	v.SetDefault(keyCacheDir, "")
	v.SetDefault(keyRefreshCache, false)
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyVerbose, false)
	v.SetDefault(keyQuiet, false)
	v.SetDefault(keyAddr, srv.Addr)
	v.SetDefault(keyMaxUpload, srv.MaxUploadBytes)
	v.SetDefault(keyThemeAccent, srv.Theme.Accent)
	v.SetDefault(keyThemeCard, srv.Theme.Card)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// readConfigFile loads path, or when path is empty looks for swatch.{yaml,
// toml,json} in the working directory and the user config directory.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("swatch")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "swatch"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// bindFlags binds the configurable flags present in flags to v.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range flagKeys {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return nil
}

// loadConfig resolves and validates the configuration held by v.
func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Colours:    v.GetInt(keyColours),
		MinColours: v.GetInt(keyMinColours),
		MaxColours: v.GetInt(keyMaxColours),
		Extractor: colour.ExtractorConfig{
			Seed:          v.GetUint64(keySeed),
			Restarts:      v.GetInt(keyRestarts),
			MaxIterations: v.GetInt(keyMaxIterations),
			Tolerance:     v.GetFloat64(keyTolerance),
		},
		Timeout:      v.GetDuration(keyTimeout),
		MaxPixels:    v.GetInt(keyMaxPixels),
		MaxDimension: v.GetInt(keyMaxDimension),
		CacheDir:     v.GetString(keyCacheDir),
		RefreshCache: v.GetBool(keyRefreshCache),
		LogFormat:    v.GetString(keyLogFormat),
		Verbose:      v.GetBool(keyVerbose),
		Quiet:        v.GetBool(keyQuiet),
	}

	cfg.Server = server.Config{
		Addr:           v.GetString(keyAddr),
		MaxUploadBytes: v.GetInt64(keyMaxUpload),
		DefaultColours: cfg.Colours,
		MinColours:     cfg.MinColours,
		MaxColours:     cfg.MaxColours,
		Theme: server.Theme{
			Accent: v.GetString(keyThemeAccent),
			Card:   v.GetString(keyThemeCard),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c Config) Validate() error {
	if c.MinColours < 1 || c.MinColours > c.MaxColours {
		return fmt.Errorf("%w: colour range [%d,%d] is invalid", colour.ErrInvalidParameter, c.MinColours, c.MaxColours)
	}
	if c.Colours < c.MinColours || c.Colours > c.MaxColours {
		return fmt.Errorf("%w: colours %d outside [%d,%d]", colour.ErrInvalidParameter, c.Colours, c.MinColours, c.MaxColours)
	}
	if err := c.Extractor.Validate(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout cannot be negative", colour.ErrInvalidParameter)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("%w: max pixels cannot be negative", colour.ErrInvalidParameter)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("%w: max dimension cannot be negative", colour.ErrInvalidParameter)
	}
	return nil
}

// Analyzer returns the pipeline configuration.
func (c Config) Analyzer() analyzer.Config {
	return analyzer.Config{
		Extractor: c.Extractor,
		Image: image.Options{
			MaxPixels:    c.MaxPixels,
			MaxDimension: c.MaxDimension,
			CacheDir:     c.CacheDir,
			RefreshCache: c.RefreshCache,
		},
		Timeout: c.Timeout,
	}
}
