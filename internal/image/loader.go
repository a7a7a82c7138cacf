// Package image provides utilities for loading and decoding images into rasters.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/security"
	httputil "github.com/jmylchreest/swatch/internal/util/http"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

const (
	// DefaultMaxPixels is the largest image decoded unless configured otherwise.
	DefaultMaxPixels = 4096 * 4096

	// SourcePixelFactor bounds the source size of an image that will be
	// downscaled: with MaxDimension set, sources up to this many times
	// MaxPixels are decoded.
	SourcePixelFactor = 16

	acceptHeader = "image/jpeg, image/png, image/*;q=0.8"
)

// Options controls decoding limits and accepted formats.
type Options struct {
	// MaxPixels rejects images with more pixels than this with
	// ErrResourceExceeded. Zero disables the check.
	MaxPixels int

	// MaxDimension, when positive, downscales images whose longer side
	// exceeds it before flattening. The source may then be up to
	// SourcePixelFactor times MaxPixels; the result must fit MaxPixels.
	MaxDimension int

	// AllowedTypes restricts accepted formats by extension ("jpg", "png").
	// Empty accepts every registered decoder.
	AllowedTypes []string

	// CacheDir, when set, keeps downloaded remote images on disk.
	CacheDir string

	// RefreshCache re-downloads remote images even when cached.
	RefreshCache bool

	// Transport overrides the HTTP transport used for remote images.
	Transport http.RoundTripper

	Logger hclog.Logger
}

// DefaultOptions returns the default decoding options.
func DefaultOptions() Options {
	return Options{MaxPixels: DefaultMaxPixels}
}

// Loader turns image bytes, files or URLs into rasters.
type Loader struct {
	opts   Options
	client *http.Client
	logger hclog.Logger
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	client := &http.Client{
		Timeout:       httputil.DefaultTimeout,
		Transport:     opts.Transport,
		CheckRedirect: checkRedirect,
	}
	return &Loader{opts: opts, client: client, logger: logger}
}

// checkRedirect applies the URL policy to every redirect hop.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 5 {
		return fmt.Errorf("stopped after %d redirects", len(via))
	}
	return security.ValidateHTTPURL(req.URL.String())
}

// Decode sniffs, decodes and flattens image data.
func (l *Loader) Decode(data []byte) (*Raster, error) {
	kind, err := filetype.Image(data)
	if err != nil || kind == filetype.Unknown {
		return nil, fmt.Errorf("%w: unrecognised image data", colour.ErrInvalidInput)
	}
	if len(l.opts.AllowedTypes) > 0 && !slices.Contains(l.opts.AllowedTypes, kind.Extension) {
		return nil, fmt.Errorf("%w: %s images are not accepted (allowed: %s)",
			colour.ErrInvalidInput, kind.Extension, strings.Join(l.opts.AllowedTypes, ", "))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported or invalid image format: %v", colour.ErrInvalidInput, err)
	}
	if err := checkPixels(cfg.Width, cfg.Height, l.sourceLimit()); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image (format: %s): %v", colour.ErrInvalidInput, format, err)
	}

	b := img.Bounds()
	if m := l.opts.MaxDimension; m > 0 && (b.Dx() > m || b.Dy() > m) {
		img = imaging.Fit(img, m, m, imaging.Lanczos)
		l.logger.Debug("downscaled image", "from", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			"to", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
		b = img.Bounds()
	}
	if err := checkPixels(b.Dx(), b.Dy(), l.opts.MaxPixels); err != nil {
		return nil, err
	}

	l.logger.Debug("decoded image", "format", format, "width", b.Dx(), "height", b.Dy())
	return NewRaster(img), nil
}

// sourceLimit is the largest image, in pixels, that Decode will decode.
func (l *Loader) sourceLimit() int {
	if l.opts.MaxPixels > 0 && l.opts.MaxDimension > 0 {
		return l.opts.MaxPixels * SourcePixelFactor
	}
	return l.opts.MaxPixels
}

func checkPixels(w, h, limit int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: image has no pixels", colour.ErrInvalidInput)
	}
	if limit > 0 && w*h > limit {
		return fmt.Errorf("%w: image is %dx%d (%d pixels), limit is %d",
			colour.ErrResourceExceeded, w, h, w*h, limit)
	}
	return nil
}

// LoadFile reads and decodes an image from the local filesystem.
func (l *Loader) LoadFile(path string) (*Raster, error) {
	if err := ValidateImagePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	l.logger.Debug("loaded image file", "path", path, "bytes", len(data))
	return l.Decode(data)
}

// LoadURL fetches and decodes an image from an HTTPS URL, reusing the
// download cache when one is configured.
func (l *Loader) LoadURL(ctx context.Context, url string) (*Raster, error) {
	if err := security.ValidateHTTPURL(url); err != nil {
		return nil, fmt.Errorf("%w: %v", colour.ErrInvalidInput, err)
	}

	fetch := httputil.FetchOptions{
		Client:  l.client,
		Headers: map[string]string{"Accept": acceptHeader},
	}

	if l.opts.CacheDir != "" {
		path, err := imagecache.DownloadAndCache(ctx, url, imagecache.CacheOptions{
			CacheDir:       l.opts.CacheDir,
			AllowOverwrite: l.opts.RefreshCache,
			Fetch:          fetch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch image from URL: %v", colour.ErrInvalidInput, err)
		}
		l.logger.Debug("using cached download", "url", url, "path", path, "refresh", l.opts.RefreshCache)
		return l.LoadFile(path)
	}

	data, err := httputil.Fetch(ctx, url, fetch)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch image from URL: %v", colour.ErrInvalidInput, err)
	}
	l.logger.Debug("downloaded image", "url", url, "bytes", len(data))
	return l.Decode(data)
}

// Load loads an image from either a local file path or an HTTP(S) URL.
func (l *Loader) Load(ctx context.Context, path string) (*Raster, error) {
	if IsURL(path) {
		return l.LoadURL(ctx, path)
	}
	return l.LoadFile(path)
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidateImagePath checks that path names a readable regular file.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: image path cannot be empty", colour.ErrInvalidInput)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: image file not found: %s", colour.ErrInvalidInput, path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: path is a directory, not a file: %s", colour.ErrInvalidInput, path)
	}
	return nil
}
