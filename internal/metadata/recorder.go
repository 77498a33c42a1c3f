package metadata

import (
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
	"github.com/rohmanhakim/nps-nearby/pkg/hashutil"
	"github.com/rohmanhakim/nps-nearby/pkg/urlutil"
)

/*
Metadata Collected
- Live fetches (redacted URL, status, duration, size)
- Cache hits
- Errors with their canonical cause
- Written artifacts (cache file, reports)

Metadata is write-only.
No component may read metadata to influence session decisions.

Request keys can carry the places API key in their query string.
Every URL is redacted before it is written and paired with a blake3
fingerprint of the raw key so log lines can still be correlated with
cache entries.
*/

// SecretQueryParams lists the query parameters that never reach a log line.
var SecretQueryParams = []string{"key", "apiKey", "api_key"}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		bodySize int,
	)
	RecordCacheHit(key string)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

/*
Recorder writes one logfmt record per event.
Ordering guarantees:
- Events are written synchronously in the order they are received.
- Write failures are swallowed: observability never fails the session.
*/
type Recorder struct {
	mu      sync.Mutex
	enc     *logfmt.Encoder
	verbose bool
	now     func() time.Time
}

func NewRecorder(w io.Writer, verbose bool) *Recorder {
	return &Recorder{
		enc:     logfmt.NewEncoder(w),
		verbose: verbose,
		now:     time.Now,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	keyvals := []interface{}{
		"ts", observedAt.UTC().Format(time.RFC3339),
		"level", "error",
		"event", "error",
		"package", packageName,
		"action", action,
		"cause", cause.String(),
		"details", errorString,
	}
	r.write(append(keyvals, attrKeyvals(attrs)...))
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	bodySize int,
) {
	r.write([]interface{}{
		"ts", r.now().UTC().Format(time.RFC3339),
		"level", "info",
		"event", "fetch",
		"cache", "miss",
		"url", redact(fetchUrl),
		"key_hash", hashutil.Fingerprint(fetchUrl),
		"status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"content_type", contentType,
		"bytes", bodySize,
	})
}

// RecordCacheHit is only written when the recorder is verbose.
func (r *Recorder) RecordCacheHit(key string) {
	if !r.verbose {
		return
	}
	r.write([]interface{}{
		"ts", r.now().UTC().Format(time.RFC3339),
		"level", "debug",
		"event", "fetch",
		"cache", "hit",
		"url", redact(key),
		"key_hash", hashutil.Fingerprint(key),
	})
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	if kind == ArtifactCacheFile && !r.verbose {
		return
	}
	keyvals := []interface{}{
		"ts", r.now().UTC().Format(time.RFC3339),
		"level", "info",
		"event", "artifact",
		"kind", string(kind),
		"path", path,
	}
	r.write(append(keyvals, attrKeyvals(attrs)...))
}

func (r *Recorder) write(keyvals []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i+1 < len(keyvals); i += 2 {
		if err := r.enc.EncodeKeyval(keyvals[i], keyvals[i+1]); err != nil {
			return
		}
	}
	_ = r.enc.EndRecord()
}

func attrKeyvals(attrs []Attribute) []interface{} {
	keyvals := make([]interface{}, 0, len(attrs)*2)
	for _, attr := range attrs {
		value := attr.Value
		if attr.Key == AttrURL {
			value = redact(value)
		}
		keyvals = append(keyvals, string(attr.Key), value)
	}
	return keyvals
}

func redact(rawURL string) string {
	return urlutil.RedactQuery(rawURL, SecretQueryParams...)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Callers (or tests) can decide whether to inject Recorder or NoopSink

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	bodySize int,
) {
}

func (n *NoopSink) RecordCacheHit(key string) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

// FormatStatus renders an HTTP status for attributes.
func FormatStatus(code int) string {
	return strconv.Itoa(code)
}
