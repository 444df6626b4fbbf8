// Package canonical provides deterministic serialization and content
// hashing for arbitrary structured payloads. Canonical form is JSON with
// lexicographically sorted object keys and fixed number formatting, so the
// digest of a payload is reproducible no matter how or where the payload
// was constructed.
//
// Hash a payload:
//
//	digest, err := canonical.HashPayload(map[string]any{
//		"species": "Pleurotus ostreatus",
//		"reading": 22.4,
//	})
//
// All functions in this package are pure and safe for concurrent use.
package canonical
