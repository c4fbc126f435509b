package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "profile.json")

	require.NoError(t, WriteFileAtomic(testFile, []byte("hello world"), 0o644))

	data, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not remain")
	assert.Equal(t, "profile.json", entries[0].Name())
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()

	testFile := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, WriteFileAtomic(testFile, []byte("initial"), 0o644))
	require.NoError(t, WriteFileAtomic(testFile, []byte("updated content"), 0o644))

	data, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "updated content", string(data))
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	t.Parallel()

	testFile := filepath.Join(t.TempDir(), "nested", "dir", "profile.json")
	require.NoError(t, WriteFileAtomic(testFile, []byte("x"), 0o600))

	_, err := os.Stat(testFile)
	assert.NoError(t, err)
}

func TestWriteFileAtomicParentIsFile(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFileAtomic(filepath.Join(blocker, "profile.json"), []byte("data"), 0o644)
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type record struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	}

	path := filepath.Join(t.TempDir(), "record.json")

	var missing record
	found, err := ReadJSON(path, &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, WriteJSONAtomic(path, record{Name: "ada", Score: 720}, 0o600))

	var got record
	found, err = ReadJSON(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record{Name: "ada", Score: 720}, got)
}

func TestReadJSONCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v map[string]any
	found, err := ReadJSON(path, &v)
	assert.False(t, found)
	assert.Error(t, err)
}
