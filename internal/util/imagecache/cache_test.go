package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	a := Filename("https://example.com/wall.PNG?size=large")
	b := Filename("https://example.com/wall.PNG?size=large")
	assert.Equal(t, a, b)
	assert.Equal(t, ".png", filepath.Ext(a))
	assert.Len(t, a, 32+len(".png"))

	assert.Equal(t, ".img", filepath.Ext(Filename("https://example.com/image")))
	assert.NotEqual(t, a, Filename("https://example.com/other.png"))
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	url := srv.URL + "/photo.png"
	ctx := context.Background()

	path, err := DownloadAndCache(ctx, url, CacheOptions{CacheDir: dir})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	again, err := DownloadAndCache(ctx, url, CacheOptions{CacheDir: dir})
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.EqualValues(t, 1, hits.Load())

	_, err = DownloadAndCache(ctx, url, CacheOptions{CacheDir: dir, AllowOverwrite: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())

	_, err = DownloadAndCache(ctx, "ftp://example.com/a.png", CacheOptions{CacheDir: dir})
	assert.Error(t, err)

	_, err = DownloadAndCache(ctx, url, CacheOptions{})
	assert.ErrorContains(t, err, "cache directory")
	assert.EqualValues(t, 2, hits.Load())
}
