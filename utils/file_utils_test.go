package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLogo(t *testing.T) {
	assert.Nil(t, LoadLogo(""))
	assert.Nil(t, LoadLogo(filepath.Join(t.TempDir(), "missing.png")))

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	f := LoadLogo(path)
	require.NotNil(t, f)
	assert.Equal(t, LogoFileName, f.Name)
	data, err := io.ReadAll(f.Reader)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}
