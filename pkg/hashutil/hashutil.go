package hashutil

import (
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// FingerprintLength is the number of hex characters kept by Fingerprint.
const FingerprintLength = 12

// HashBytes returns the hash of bytes as a hex string using the specified algorithm.
// Supported algorithms: "blake3".
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoBLAKE3:
		return hashBytesBlake3(data), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// Fingerprint returns a short, stable blake3 identifier for a request key.
// Request keys may embed secrets, so logs carry the fingerprint next to a
// redacted form instead of the raw key.
func Fingerprint(key string) string {
	return hashBytesBlake3([]byte(key))[:FingerprintLength]
}

func hashBytesBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
