package fetcher

// FetchResult is the body behind a request key, served either from the
// cache or from a live request.
type FetchResult struct {
	key        string
	body       string
	fromCache  bool
	statusCode int
}

func (f FetchResult) Key() string {
	return f.key
}

func (f FetchResult) Body() []byte {
	return []byte(f.body)
}

func (f FetchResult) Text() string {
	return f.body
}

// FromCache reports whether the body was served without a request.
func (f FetchResult) FromCache() bool {
	return f.fromCache
}

// Code is the HTTP status of a live response. Cached entries do not keep
// their status, so Code is 0 for them.
func (f FetchResult) Code() int {
	return f.statusCode
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(key string, body string, fromCache bool, statusCode int) FetchResult {
	return FetchResult{
		key:        key,
		body:       body,
		fromCache:  fromCache,
		statusCode: statusCode,
	}
}
