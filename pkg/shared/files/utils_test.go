package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "regular file", path: file, wantErr: false},
		{name: "directory", path: dir, wantErr: true},
		{name: "missing", path: filepath.Join(dir, "missing.json"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateFolderIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, CreateFolderIfNotExists(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent on existing directories
	assert.NoError(t, CreateFolderIfNotExists(dir))
}

func TestWriteFileInFolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	require.NoError(t, WriteFileInFolder(path, []byte(`{"ok":true}`)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/layers")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "layers"), expanded)

	plain, err := ExpandPath("/tmp/layers")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/layers", plain)
}
