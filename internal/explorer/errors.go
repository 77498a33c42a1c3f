package explorer

import (
	"fmt"

	"github.com/rohmanhakim/nps-nearby/pkg/failure"
)

type ExplorerErrorCause string

const (
	ErrCauseMissingAPIKey ExplorerErrorCause = "missing API key"
	ErrCauseNoOrigin      ExplorerErrorCause = "no search origin"
)

type ExplorerError struct {
	Message   string
	Retryable bool
	Cause     ExplorerErrorCause
}

func (e *ExplorerError) Error() string {
	return fmt.Sprintf("explorer error: %s: %s", e.Cause, e.Message)
}

func (e *ExplorerError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// ErrMissingAPIKey is returned by NearbyPlaces when no places API key is configured.
var ErrMissingAPIKey = &ExplorerError{
	Message:   "set --api-key, apiKey in the config file or NPS_NEARBY_API_KEY",
	Retryable: true,
	Cause:     ErrCauseMissingAPIKey,
}

// ErrNoOrigin is returned by NearbyPlaces for a site without a zipcode.
var ErrNoOrigin = &ExplorerError{
	Message:   "site has no zipcode to search around",
	Retryable: true,
	Cause:     ErrCauseNoOrigin,
}
