package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/swatch/internal/colour"
)

// encodePNG returns a w×h PNG filled by fill.
func encodePNG(t *testing.T, w, h int, fill func(x, y int) color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, fill(x, y))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(c color.Color) func(int, int) color.Color {
	return func(int, int) color.Color { return c }
}

func TestDecodePNG(t *testing.T) {
	data := encodePNG(t, 2, 2, func(x, y int) color.Color {
		if y == 0 {
			return color.RGBA{R: 255, A: 255}
		}
		return color.RGBA{B: 255, A: 255}
	})

	r, err := NewLoader(DefaultOptions()).Decode(data)
	require.NoError(t, err)

	w, h := r.Bounds()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, []colour.RGB{{R: 255}, {R: 255}, {B: 255}, {B: 255}}, r.Pixels())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := NewLoader(DefaultOptions()).Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, colour.ErrInvalidInput)

	_, err = NewLoader(DefaultOptions()).Decode(nil)
	assert.ErrorIs(t, err, colour.ErrInvalidInput)
}

func TestDecodeRejectsTruncatedPNG(t *testing.T) {
	data := encodePNG(t, 4, 4, solid(color.White))
	_, err := NewLoader(DefaultOptions()).Decode(data[:40])
	assert.ErrorIs(t, err, colour.ErrInvalidInput)
}

func TestDecodeAllowedTypes(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))

	opts := DefaultOptions()
	opts.AllowedTypes = []string{"jpg", "png"}
	_, err := NewLoader(opts).Decode(buf.Bytes())
	assert.ErrorIs(t, err, colour.ErrInvalidInput)

	r, err := NewLoader(DefaultOptions()).Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())
}

func TestDecodeMaxPixels(t *testing.T) {
	data := encodePNG(t, 20, 10, solid(color.Black))

	opts := DefaultOptions()
	opts.MaxPixels = 100
	_, err := NewLoader(opts).Decode(data)
	assert.ErrorIs(t, err, colour.ErrResourceExceeded)

	opts.MaxDimension = 10
	r, err := NewLoader(opts).Decode(data)
	require.NoError(t, err)
	w, h := r.Bounds()
	assert.Equal(t, 10, w)
	assert.Equal(t, 5, h)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lime.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 3, 3, solid(color.RGBA{G: 255, A: 255})), 0o600))

	l := NewLoader(DefaultOptions())
	r, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	px, err := r.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, colour.RGB{G: 255}, px)

	_, err = l.LoadFile(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, colour.ErrInvalidInput)

	_, err = l.LoadFile(dir)
	assert.ErrorIs(t, err, colour.ErrInvalidInput)
}

func TestLoadURLRejectsUnsafeURLs(t *testing.T) {
	l := NewLoader(DefaultOptions())
	_, err := l.Load(context.Background(), "http://example.com/a.png")
	assert.ErrorIs(t, err, colour.ErrInvalidInput)

	_, err = l.Load(context.Background(), "https://127.0.0.1/a.png")
	assert.ErrorIs(t, err, colour.ErrInvalidInput)
}

func TestDecodeBoundsSourceBeforeDownscale(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 400, 400))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	opts := DefaultOptions()
	opts.MaxPixels = 100
	opts.MaxDimension = 10
	_, err := NewLoader(opts).Decode(buf.Bytes())
	assert.ErrorIs(t, err, colour.ErrResourceExceeded)

	opts.MaxPixels = 400 * 400 / SourcePixelFactor
	r, err := NewLoader(opts).Decode(buf.Bytes())
	require.NoError(t, err)
	w, h := r.Bounds()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(r *http.Request, status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    r,
	}
}

func TestLoadURL(t *testing.T) {
	body := encodePNG(t, 2, 2, solid(color.RGBA{B: 255, A: 255}))
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		switch r.URL.Path {
		case "/blue.png":
			assert.True(t, strings.HasPrefix(r.Header.Get("Accept"), "image/"))
			return respond(r, http.StatusOK, body, nil), nil
		case "/moved.png":
			return respond(r, http.StatusFound, nil, http.Header{"Location": {"https://127.0.0.1/blue.png"}}), nil
		default:
			return respond(r, http.StatusNotFound, nil, nil), nil
		}
	})
	ctx := context.Background()

	l := NewLoader(Options{Transport: transport})
	r, err := l.Load(ctx, "https://images.example.com/blue.png")
	require.NoError(t, err)
	px, err := r.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, colour.RGB{B: 255}, px)

	_, err = l.Load(ctx, "https://images.example.com/missing.png")
	assert.ErrorIs(t, err, colour.ErrInvalidInput)
	assert.Equal(t, "InvalidInput", colour.ErrorKind(err))

	_, err = l.Load(ctx, "https://images.example.com/moved.png")
	assert.ErrorIs(t, err, colour.ErrInvalidInput)
}

func TestLoadURLCache(t *testing.T) {
	body := encodePNG(t, 1, 1, solid(color.White))
	var hits atomic.Int32
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		hits.Add(1)
		return respond(r, http.StatusOK, body, nil), nil
	})
	ctx := context.Background()
	url := "https://images.example.com/white.png"
	opts := Options{CacheDir: t.TempDir(), Transport: transport}

	for range 2 {
		_, err := NewLoader(opts).Load(ctx, url)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, hits.Load())

	opts.RefreshCache = true
	_, err := NewLoader(opts).Load(ctx, url)
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.False(t, IsURL("a.png"))
}
