package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFile_ReplacesAndLeavesNoTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	require.NoError(t, EnsureDir(dir))
	path := filepath.Join(dir, "obj1_platforms.png")

	require.NoError(t, SafeWriteFile(path, []byte("first")))
	require.NoError(t, SafeWriteFile(path, []byte("second")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be renamed away")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSafeWriteFile_MissingDir(t *testing.T) {
	err := SafeWriteFile(filepath.Join(t.TempDir(), "nope", "x.png"), []byte("x"))
	assert.Error(t, err)
}
