package chain

import "time"

// FailureReason classifies why a record failed verification.
type FailureReason string

const (
	// ReasonDataHashMismatch means the record's stored content digest does
	// not match a recomputation over its payload, or the payload could not
	// be canonicalized at all.
	ReasonDataHashMismatch FailureReason = "data_hash_mismatch"
	// ReasonLinkMismatch means the record's prev_hash does not match the
	// link derived from its predecessor.
	ReasonLinkMismatch FailureReason = "link_mismatch"
)

// IntegrityRecord is one tamper-evident entry in an append-style ledger.
// Records are created once by an upstream producer and never mutated;
// verification only reads them.
type IntegrityRecord struct {
	// RecordID is the caller-assigned, globally unique content identifier.
	RecordID string `json:"record_id"`
	// Timestamp is when the record was produced. It is a display and
	// ordering hint only, never a cryptographic commitment.
	Timestamp time.Time `json:"timestamp"`
	// Payload is the structured value being protected.
	Payload any `json:"payload"`
	// DataHash is the lowercase hex digest of the canonicalized payload.
	DataHash string `json:"data_hash"`
	// PrevHash links this record to its predecessor. Empty only for a
	// chain's genesis record.
	PrevHash string `json:"prev_hash,omitempty"`
	// Signature is an opaque authenticity assertion verified elsewhere.
	Signature string `json:"signature,omitempty"`
}

// Failure describes one verification mismatch.
type Failure struct {
	RecordID string        `json:"record_id"`
	Reason   FailureReason `json:"reason"`
}

// VerificationResult reports the outcome of verifying an ordered record
// sequence. Mismatches are data, not errors: Valid is true iff Failures
// is empty.
type VerificationResult struct {
	Valid    bool      `json:"valid"`
	Failures []Failure `json:"failures"`
}
