// internal/storage/file_storage_test.go
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadJSONFile(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, fs.SaveJSONFile("sub", "data.json", payload{Name: "milk", Count: 2}))

	var loaded payload
	require.NoError(t, fs.LoadJSONFile("sub", "data.json", &loaded))
	assert.Equal(t, payload{Name: "milk", Count: 2}, loaded)
}

func TestSaveTextFileLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, fs.SaveTextFile("", "note.txt", []byte("hello")))

	_, err = os.Stat(filepath.Join(dir, "note.txt.tmp"))
	assert.True(t, os.IsNotExist(err))

	content, err := fs.LoadTextFile("", "note.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestFileExists(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.False(t, fs.FileExists("", "missing.json"))
	require.NoError(t, fs.SaveTextFile("", "present.json", []byte("{}")))
	assert.True(t, fs.FileExists("", "present.json"))
}

func TestDeleteFile(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.SaveTextFile("", "gone.json", []byte("{}")))
	require.NoError(t, fs.DeleteFile("", "gone.json"))
	assert.False(t, fs.FileExists("", "gone.json"))

	assert.Error(t, fs.DeleteFile("", "gone.json"))
}

func TestLoadMissingFile(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = fs.LoadTextFile("", "missing.txt")
	assert.Error(t, err)
}
