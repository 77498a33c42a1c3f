package hashutil_test

import (
	"encoding/hex"
	"testing"

	"github.com/rohmanhakim/nps-nearby/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/blake3"
)

func TestHashBytes_KnownVectors_BLAKE3(t *testing.T) {
	// BLAKE3 known test vectors from the official specification
	vectors := []struct {
		input    string
		expected string
	}{
		{"", "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
		{"abc", "6437b3ac38465133ffb63b75273a8db548c558465d79db03fd359c6cd5bd9d85"},
	}

	for _, v := range vectors {
		result, err := hashutil.HashBytes([]byte(v.input), hashutil.HashAlgoBLAKE3)
		require.NoError(t, err)
		assert.Equal(t, v.expected, result, "BLAKE3 hash mismatch for input: %q", v.input)
	}
}

func TestHashBytes_UnsupportedAlgo(t *testing.T) {
	_, err := hashutil.HashBytes([]byte("x"), hashutil.HashAlgo("md5"))
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	key := "https://www.nps.gov/isro/index.htm"

	fp := hashutil.Fingerprint(key)

	full := blake3.Sum256([]byte(key))
	assert.Len(t, fp, hashutil.FingerprintLength)
	assert.Equal(t, hex.EncodeToString(full[:])[:hashutil.FingerprintLength], fp)
	assert.Equal(t, fp, hashutil.Fingerprint(key), "fingerprint must be stable")
}

func TestFingerprint_DistinguishesQueryValues(t *testing.T) {
	a := hashutil.Fingerprint("http://www.mapquestapi.com/search/v2/radius?key=a&origin=49931")
	b := hashutil.Fingerprint("http://www.mapquestapi.com/search/v2/radius?key=a&origin=49932")

	assert.NotEqual(t, a, b)
}
