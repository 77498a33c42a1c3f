package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging and reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used to decide whether the session continues.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

  - The failure does not map cleanly to any known category.

# CauseNetworkFailure

  - Transport failure while talking to a remote host (DNS, TCP, TLS, timeouts).

# CauseHTTPStatus

  - The remote host answered with a non-2xx status. The body is still
    returned, and cached unless configured otherwise.

# CauseContentInvalid

  - A body was fetched but its expected structure is missing
    (no state menu, no park list, JSON that does not decode).

# CauseStorageFailure

  - Persisting the cache or an exported report failed.

# CauseCacheCorrupt

  - The cache file exists but could not be read or decoded;
    the session starts with an empty cache.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseHTTPStatus
	CauseContentInvalid
	CauseStorageFailure
	CauseCacheCorrupt
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseHTTPStatus:
		return "http_status"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseCacheCorrupt:
		return "cache_corrupt"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactCacheFile ArtifactKind = "cache_file"
	ArtifactReport    ArtifactKind = "report"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrPath       AttributeKey = "path"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrWritePath  AttributeKey = "write_path"
	AttrEntries    AttributeKey = "entries"
	AttrBackend    AttributeKey = "backend"
	AttrState      AttributeKey = "state"
)
