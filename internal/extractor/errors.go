package extractor

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseStructureMissing ExtractionErrorCause = "expected structure missing"
	ErrCauseMalformedJSON    ExtractionErrorCause = "malformed JSON"
	ErrCauseUpstreamRejected ExtractionErrorCause = "request rejected upstream"
)

// ExtractionError reports a body whose overall shape is wrong. Missing
// individual fields never produce one; they become sentinels.
type ExtractionError struct {
	Message   string
	Retryable bool
	Cause     ExtractionErrorCause
	// Messages carries the upstream explanation for ErrCauseUpstreamRejected.
	Messages []string
}

func (e *ExtractionError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("extraction error: %s: %s (%s)", e.Cause, e.Message, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("extraction error: %s: %s", e.Cause, e.Message)
}

func (e *ExtractionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// MapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func MapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseStructureMissing, ErrCauseMalformedJSON:
		return metadata.CauseContentInvalid
	case ErrCauseUpstreamRejected:
		return metadata.CauseHTTPStatus
	default:
		return metadata.CauseUnknown
	}
}
