package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rohmanhakim/nps-nearby/pkg/failure"
)

// GetFileExtension extracts the file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	// Remove the leading dot
	return strings.TrimPrefix(ext, ".")
}

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	target := filepath.Join(targetPath...)
	if err := os.MkdirAll(target, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      target,
		}
	}
	return nil
}

// WriteFile replaces the content of path with data, creating the parent
// directory first. The write is a plain truncate-and-write: a crash in the
// middle leaves a partial file behind.
func WriteFile(path string, data []byte) failure.ClassifiedError {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := EnsureDir(dir); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		cause := ErrCauseWriteFailure
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
		}
		return &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     cause,
			Path:      path,
		}
	}
	return nil
}
