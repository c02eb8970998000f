package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseColor(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, UseColor("always", f))
	assert.False(t, UseColor("never", f))
	assert.False(t, UseColor("auto", f), "regular files are not terminals")
	assert.False(t, IsTerminal(f))
	assert.Zero(t, Width(f))
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(0)
	require.NoError(t, err)

	out, err := render("| Name |\n| --- |\n| iPhone 15 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "iPhone 15")
}

func TestPrintBanner(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		PrintBanner(&buf, "1.2.3", false)
		assert.True(t, strings.Contains(buf.String(), "findsimulator"))
		assert.Contains(t, buf.String(), "v1.2.3")
		assert.NotContains(t, buf.String(), "\x1b[")
	})

	t.Run("colored", func(t *testing.T) {
		var buf bytes.Buffer
		PrintBanner(&buf, "1.2.3", true)
		assert.Contains(t, buf.String(), "\x1b[")
		assert.Contains(t, buf.String(), "v1.2.3")
	})
}
