package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rohmanhakim/nps-nearby/internal/cache"
	"github.com/rohmanhakim/nps-nearby/internal/metadata"
	"github.com/rohmanhakim/nps-nearby/pkg/failure"
	"github.com/rohmanhakim/nps-nearby/pkg/limiter"
	"github.com/rohmanhakim/nps-nearby/pkg/urlutil"
)

/*
Responsibilities

- Serve request keys from the cache when present
- Otherwise pause for the cooldown, issue exactly one GET and store the body
- Apply the identifying headers to every live request

Fetch Semantics

- A hit never touches the network and never waits
- A miss always waits the full cooldown first
- The body is kept whatever the status code; non-2xx responses are flagged
  to the metadata sink and stored unless error caching is turned off
- Transport failures are returned and nothing is stored
- There is no retry

The request key is the full URL, query string included, and is used verbatim
both as the cache key and as the request target.
*/

type CachedFetcher struct {
	metadataSink        metadata.MetadataSink
	store               cache.Store
	limiter             limiter.Limiter
	httpClient          *http.Client
	headers             map[string]string
	cacheErrorResponses bool
}

func NewCachedFetcher(
	metadataSink metadata.MetadataSink,
	store cache.Store,
	limiter limiter.Limiter,
	httpClient *http.Client,
	headers map[string]string,
) *CachedFetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	return &CachedFetcher{
		metadataSink:        metadataSink,
		store:               store,
		limiter:             limiter,
		httpClient:          httpClient,
		headers:             copied,
		cacheErrorResponses: true,
	}
}

// SetCacheErrorResponses controls whether non-2xx bodies are stored.
// They are returned to the caller either way.
func (c *CachedFetcher) SetCacheErrorResponses(enabled bool) {
	c.cacheErrorResponses = enabled
}

func (c *CachedFetcher) Fetch(ctx context.Context, key string) (FetchResult, failure.ClassifiedError) {
	callerMethod := "CachedFetcher.Fetch"

	if body, ok := c.store.Get(key); ok {
		c.metadataSink.RecordCacheHit(key)
		return FetchResult{
			key:       key,
			body:      body,
			fromCache: true,
		}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		fetchErr := &FetchError{
			Message:   fmt.Sprintf("cooldown interrupted: %v", err),
			Retryable: false,
			Cause:     ErrCauseCancelled,
		}
		c.recordFetchError(callerMethod, key, fetchErr)
		return FetchResult{}, fetchErr
	}

	startTime := time.Now()
	result, fetchErr := c.performFetch(ctx, key)
	duration := time.Since(startTime)

	if fetchErr != nil {
		c.metadataSink.RecordFetch(key, 0, duration, "", 0)
		c.recordFetchError(callerMethod, key, fetchErr)
		return FetchResult{}, fetchErr
	}

	c.metadataSink.RecordFetch(key, result.statusCode, duration, result.contentType, len(result.body))

	success := result.statusCode >= 200 && result.statusCode < 300
	if !success {
		c.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			metadata.CauseHTTPStatus,
			fmt.Sprintf("non-2xx response: %s", metadata.FormatStatus(result.statusCode)),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, key),
				metadata.NewAttr(metadata.AttrHTTPStatus, metadata.FormatStatus(result.statusCode)),
			},
		)
	}

	if success || c.cacheErrorResponses {
		if err := c.store.Put(key, result.body); err != nil {
			return FetchResult{}, persistError(err)
		}
	}

	return FetchResult{
		key:        key,
		body:       result.body,
		statusCode: result.statusCode,
	}, nil
}

type liveResponse struct {
	statusCode  int
	contentType string
	body        string
}

func (c *CachedFetcher) performFetch(ctx context.Context, key string) (liveResponse, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return liveResponse{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request for %s: %v", redactKey(key), unwrapURLError(err)),
			Retryable: true,
			Cause:     ErrCauseInvalidRequest,
		}
	}

	for _, name := range sortedHeaderNames(c.headers) {
		req.Header.Set(name, c.headers[name])
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return liveResponse{}, &FetchError{
				Message:   fmt.Sprintf("request aborted: %v", ctx.Err()),
				Retryable: false,
				Cause:     ErrCauseCancelled,
			}
		}
		return liveResponse{}, &FetchError{
			Message:   fmt.Sprintf("request to %s failed: %v", redactKey(key), unwrapURLError(err)),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return liveResponse{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", unwrapURLError(err)),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	return liveResponse{
		statusCode:  resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        string(body),
	}, nil
}

func (c *CachedFetcher) recordFetchError(callerMethod string, key string, fetchErr *FetchError) {
	c.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		mapFetchErrorToMetadataCause(fetchErr),
		fetchErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, key),
		},
	)
}

// persistError keeps the store's own classification when it has one.
func persistError(err error) failure.ClassifiedError {
	var classified failure.ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}
	return &FetchError{
		Message:   err.Error(),
		Retryable: false,
		Cause:     ErrCausePersistFailure,
	}
}

// redactKey hides API keys carried in the query string.
func redactKey(key string) string {
	return urlutil.RedactQuery(key, metadata.SecretQueryParams...)
}

// unwrapURLError drops the *url.Error wrapper, whose message repeats the
// full request URL.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func sortedHeaderNames(headers map[string]string) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
