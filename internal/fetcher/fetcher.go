package fetcher

import (
	"context"

	"github.com/rohmanhakim/nps-nearby/pkg/failure"
)

// Fetcher resolves a request key to a response body.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (FetchResult, failure.ClassifiedError)
}
