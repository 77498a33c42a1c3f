package cache

import (
	"fmt"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/failure"
)

type StoreErrorCause string

const (
	ErrCausePersistFailure StoreErrorCause = "persist failure"
	ErrCauseOpenFailure    StoreErrorCause = "open failure"
	ErrCauseQueryFailure   StoreErrorCause = "query failure"
)

type StoreError struct {
	Message   string
	Retryable bool
	Cause     StoreErrorCause
	Path      string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache error: %s: %s", e.Cause, e.Message)
}

func (e *StoreError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapStoreErrorToMetadataCause maps cache-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStoreErrorToMetadataCause(err *StoreError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCausePersistFailure, ErrCauseOpenFailure, ErrCauseQueryFailure:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
