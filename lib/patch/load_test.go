// SPDX-License-Identifier: MIT
package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadPair(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "fix-ref.bin", []byte("BB"))
	writeFile(t, dir, "fix-mod.bin", []byte("XX"))

	spec, err := LoadPair(refPath)
	require.NoError(t, err)
	assert.Equal(t, "fix-ref.bin", spec.Name)
	assert.Equal(t, []byte("BB"), spec.Reference)
	assert.Equal(t, []byte("XX"), spec.Modified)
}

func TestLoadPairMissingMod(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "fix-ref.bin", []byte("BB"))

	_, err := LoadPair(refPath)
	assert.Error(t, err)
}

func TestLoadPairBadSuffix(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.bin", []byte("BB"))

	_, err := LoadPair(path)
	assert.Error(t, err)
}

func TestLoadPairSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "fix-ref.bin", []byte("BB"))
	writeFile(t, dir, "fix-mod.bin", []byte("XXX"))

	_, err := LoadPair(refPath)
	assert.True(t, errors.Is(err, ErrSpecSize))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a-ref.bin", []byte("AA"))
	writeFile(t, dir, "a-mod.bin", []byte("11"))
	writeFile(t, dir, "b-ref.bin", []byte("BB"))
	writeFile(t, dir, "b-mod.bin", []byte("22"))
	// Reference with no mod partner is skipped.
	writeFile(t, dir, "orphan-ref.bin", []byte("CC"))

	specs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "a-ref.bin", specs[0].Name)
	assert.Equal(t, "b-ref.bin", specs[1].Name)
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.Error(t, err)
}
