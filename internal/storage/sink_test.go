package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/internal/storage"
	"github.com/rohmanhakim/nps-nearby/pkg/failure"
	"github.com/rohmanhakim/nps-nearby/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metadataSinkMock struct {
	metadata.NoopSink
	artifacts []string
	kinds     []metadata.ArtifactKind
	errors    []metadata.ErrorCause
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.kinds = append(m.kinds, kind)
	m.artifacts = append(m.artifacts, path)
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errors = append(m.errors, cause)
}

func TestLocalSink_Write_Success(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
	}{
		{name: "markdown report", fileName: "michigan.md", content: "# National sites in Michigan\n"},
		{name: "html report", fileName: "new-york.html", content: "<h1>National sites in New York</h1>"},
		{name: "empty report", fileName: "empty.md", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputDir := filepath.Join(t.TempDir(), "reports")
			mockSink := &metadataSinkMock{}
			sink := storage.NewLocalSink(mockSink)

			result, err := sink.Write(outputDir, tt.fileName, []byte(tt.content))
			require.Nil(t, err)

			expectedPath := filepath.Join(outputDir, tt.fileName)
			assert.Equal(t, expectedPath, result.Path())
			assert.Equal(t, len(tt.content), result.Size())

			expectedHash, _ := hashutil.HashBytes([]byte(tt.content), hashutil.HashAlgoBLAKE3)
			assert.Equal(t, expectedHash, result.ContentHash())

			written, readErr := os.ReadFile(expectedPath)
			require.NoError(t, readErr)
			assert.Equal(t, tt.content, string(written))

			assert.Equal(t, []string{expectedPath}, mockSink.artifacts)
			assert.Equal(t, []metadata.ArtifactKind{metadata.ArtifactReport}, mockSink.kinds)
		})
	}
}

func TestLocalSink_Write_Overwrites(t *testing.T) {
	outputDir := t.TempDir()
	sink := storage.NewLocalSink(&metadata.NoopSink{})

	_, err := sink.Write(outputDir, "michigan.md", []byte("first"))
	require.Nil(t, err)
	_, err = sink.Write(outputDir, "michigan.md", []byte("second"))
	require.Nil(t, err)

	written, readErr := os.ReadFile(filepath.Join(outputDir, "michigan.md"))
	require.NoError(t, readErr)
	assert.Equal(t, "second", string(written))
}

func TestLocalSink_Write_RejectsNestedNames(t *testing.T) {
	sink := storage.NewLocalSink(&metadata.NoopSink{})

	for _, name := range []string{"", "../escape.md", "sub/dir.md"} {
		_, err := sink.Write(t.TempDir(), name, []byte("x"))
		require.NotNil(t, err, "name %q", name)

		var storageErr *storage.StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, storage.ErrCausePathError, storageErr.Cause)
	}
}

func TestLocalSink_Write_Failure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

	mockSink := &metadataSinkMock{}
	sink := storage.NewLocalSink(mockSink)

	_, err := sink.Write(filepath.Join(blocker, "reports"), "michigan.md", []byte("x"))
	require.NotNil(t, err)
	assert.Equal(t, failure.SeverityFatal, err.Severity())
	assert.Equal(t, []metadata.ErrorCause{metadata.CauseStorageFailure}, mockSink.errors)
	assert.Empty(t, mockSink.artifacts)
}
