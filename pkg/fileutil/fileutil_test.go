package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/nps-nearby/pkg/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"json cache file", "cache_NPS.json", "json"},
		{"sqlite cache file", "/var/cache/nps/cache.db", "db"},
		{"yaml config", "nps-nearby.yaml", "yaml"},
		{"file without extension", "README", ""},
		{"dotfile", ".env", "env"},
		{"empty string", "", ""},
		{"trailing dot", "file.", ""},
		{"uppercase extension", "REPORT.MD", "MD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fileutil.GetFileExtension(tt.path))
		})
	}
}

func TestEnsureDir_MultiplePathComponents(t *testing.T) {
	tmpDir := t.TempDir()
	targetDir := filepath.Join(tmpDir, "parent", "child")

	err := fileutil.EnsureDir(tmpDir, "parent", "child")
	require.NoError(t, err)

	info, statErr := os.Stat(targetDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_DirectoryAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "existing"), 0755))
	assert.Nil(t, fileutil.EnsureDir(tmpDir, "existing"))
}

func TestEnsureDir_PermissionError(t *testing.T) {
	if filepath.Separator == '\\' {
		t.Skip("Skipping permission test on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	tmpDir := t.TempDir()
	readonlyDir := filepath.Join(tmpDir, "readonly")
	require.NoError(t, os.MkdirAll(readonlyDir, 0555))

	err := fileutil.EnsureDir(readonlyDir, "subdir")
	require.Error(t, err)

	var fileErr *fileutil.FileError
	if assert.ErrorAs(t, err, &fileErr) {
		assert.False(t, fileErr.Retryable)
		assert.Equal(t, fileutil.ErrCausePathError, fileErr.Cause)
	}
}

func TestWriteFile_CreatesParentAndReplacesContent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "cache.json")

	require.Nil(t, fileutil.WriteFile(path, []byte(`{"a":"1"}`)))
	require.Nil(t, fileutil.WriteFile(path, []byte(`{}`)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))
}

func TestWriteFile_TargetIsDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	err := fileutil.WriteFile(tmpDir, []byte("x"))
	require.NotNil(t, err)

	var fileErr *fileutil.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, fileutil.ErrCauseWriteFailure, fileErr.Cause)
	assert.Equal(t, tmpDir, fileErr.Path)
}
