package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New("swatch", Options{Output: &buf})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger, err = New("swatch", Options{Output: &buf, Verbose: true})
	require.NoError(t, err)
	logger.Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")

	buf.Reset()
	logger, err = New("swatch", Options{Output: &buf, Verbose: true, Quiet: true})
	require.NoError(t, err)
	logger.Warn("quiet wins")
	assert.Empty(t, buf.String())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("swatch", Options{Output: &buf, Format: "JSON"})
	require.NoError(t, err)
	logger.Warn("structured", "k", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "structured", line["@message"])
	assert.EqualValues(t, 3, line["k"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("swatch", Options{Format: "xml"})
	assert.Error(t, err)
}
