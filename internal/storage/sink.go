package storage

import (
	"errors"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/failure"
	"github.com/rohmanhakim/nps-nearby/pkg/fileutil"
	"github.com/rohmanhakim/nps-nearby/pkg/hashutil"
)

/*
Responsibilities
- Persist exported reports
- Keep file names deterministic so reruns overwrite the previous export

Output Characteristics
- Flat directory layout: <outputDir>/<name>
- Overwrite-safe reruns
*/

type Sink interface {
	Write(
		outputDir string,
		name string,
		content []byte,
	) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
}

func NewLocalSink(
	metadataSink metadata.MetadataSink,
) LocalSink {
	return LocalSink{
		metadataSink: metadataSink,
	}
}

func (s *LocalSink) Write(
	outputDir string,
	name string,
	content []byte,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := write(outputDir, name, content)
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return WriteResult{}, storageError
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactReport,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrField, writeResult.ContentHash()),
			metadata.NewAttr(metadata.AttrEntries, strconv.Itoa(writeResult.Size())),
		},
	)
	return writeResult, nil
}

func write(
	outputDir string,
	name string,
	content []byte,
) (WriteResult, failure.ClassifiedError) {
	if name == "" || filepath.Base(name) != name {
		return WriteResult{}, &StorageError{
			Message:   "report name must be a plain file name",
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      name,
		}
	}

	contentHash, err := hashutil.HashBytes(content, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
		}
	}

	fullPath := filepath.Join(outputDir, name)
	if writeErr := fileutil.WriteFile(fullPath, content); writeErr != nil {
		cause := ErrCauseWriteFailure
		var fileErr *fileutil.FileError
		if errors.As(writeErr, &fileErr) {
			switch fileErr.Cause {
			case fileutil.ErrCauseDiskFull:
				cause = ErrCauseDiskFull
			case fileutil.ErrCausePathError:
				cause = ErrCausePathError
			}
		}
		return WriteResult{}, &StorageError{
			Message:   writeErr.Error(),
			Retryable: false,
			Cause:     cause,
			Path:      fullPath,
		}
	}

	return NewWriteResult(fullPath, contentHash, len(content)), nil
}
