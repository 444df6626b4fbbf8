package canonical

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the SHA-256 digest of data as lowercase hex.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashPayload canonicalizes payload and returns the SHA-256 digest of the
// canonical bytes as lowercase hex. Two payloads that are logically equal
// always hash identically, regardless of map key ordering or the Go types
// used to build them.
func HashPayload(payload any) (string, error) {
	serialized, err := Canonicalize(payload)
	if err != nil {
		return "", err
	}
	return HashBytes(serialized), nil
}
