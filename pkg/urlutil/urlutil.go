package urlutil

import (
	"net/url"
	"strings"
)

// RedactedValue replaces secret query values in RedactQuery output.
const RedactedValue = "REDACTED"

// Canonicalize applies a deterministic normalization to a URL, producing a canonical form.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Query parameters are removed
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
func Canonicalize(sourceUrl url.URL) url.URL {
	// Create a copy to avoid mutating the original
	canonical := sourceUrl

	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""
	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// BaseString renders a canonical URL as a prefix that site-relative paths
// can be appended to. The root path is dropped so "https://host/" becomes
// "https://host".
func BaseString(base url.URL) string {
	canonical := Canonicalize(base)
	if canonical.Path == "/" {
		canonical.Path = ""
	}
	return canonical.String()
}

// JoinPath appends a site-relative href to base. Absolute hrefs are returned
// unchanged. The join is textual so the resulting request key is exactly
// base + "/" + path, without any re-encoding.
func JoinPath(base string, href string) string {
	href = strings.TrimSpace(href)
	if parsed, err := url.Parse(href); err == nil && parsed.IsAbs() {
		return href
	}
	if href == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}

// RedactQuery replaces the values of the named query parameters with
// RedactedValue while keeping every other byte of rawURL, including the
// parameter order.
func RedactQuery(rawURL string, params ...string) string {
	queryStart := strings.IndexByte(rawURL, '?')
	if queryStart < 0 || len(params) == 0 {
		return rawURL
	}

	secret := make(map[string]struct{}, len(params))
	for _, p := range params {
		secret[p] = struct{}{}
	}

	head := rawURL[:queryStart+1]
	query := rawURL[queryStart+1:]
	fragment := ""
	if hash := strings.IndexByte(query, '#'); hash >= 0 {
		fragment = query[hash:]
		query = query[:hash]
	}

	pairs := strings.Split(query, "&")
	for i, pair := range pairs {
		name, _, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			continue
		}
		if unescaped, err := url.QueryUnescape(name); err == nil {
			name = unescaped
		}
		if _, ok := secret[name]; ok {
			pairs[i] = pair[:strings.IndexByte(pair, '=')+1] + RedactedValue
		}
	}

	return head + strings.Join(pairs, "&") + fragment
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
