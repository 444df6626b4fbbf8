package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/mycosoft/mindex-sdk-go/pkg/canonical"
)

// GenesisSentinel stands in for the missing predecessor link when hashing
// a genesis record's linkage fields.
const GenesisSentinel = "0000000000000000000000000000000000000000000000000000000000000000"

// LinkHash combines a record's own linkage fields into the value its
// successor must carry as prev_hash. An empty prevHash is replaced with
// the all-zero sentinel, so the function is total for any input pair.
func LinkHash(prevHash string, dataHash string) string {
	if prevHash == "" {
		prevHash = GenesisSentinel
	}
	sum := sha256.Sum256([]byte(prevHash + dataHash))
	return hex.EncodeToString(sum[:])
}

// VerifyChain recomputes every content hash and every adjacent link in
// records, assumed already sorted into production order by the caller.
// The first record's prev_hash is the chain's stated genesis anchor and
// is accepted as given. A payload that cannot be canonicalized is
// reported as a data_hash_mismatch for that record; verification of the
// remaining sequence continues so one malformed record never hides other
// problems. The result is a pure function of the input: no I/O, no clock
// reads, O(n) digests for n records.
func VerifyChain(records []IntegrityRecord) VerificationResult {
	failures := make([]Failure, 0)

	for _, record := range records {
		expectedDataHash, err := canonical.HashPayload(record.Payload)
		if err != nil || expectedDataHash != record.DataHash {
			failures = append(failures, Failure{
				RecordID: record.RecordID,
				Reason:   ReasonDataHashMismatch,
			})
		}
	}

	for index := 1; index < len(records); index++ {
		previous := records[index-1]
		current := records[index]

		expectedLink := LinkHash(previous.PrevHash, previous.DataHash)
		if current.PrevHash != expectedLink {
			failures = append(failures, Failure{
				RecordID: current.RecordID,
				Reason:   ReasonLinkMismatch,
			})
		}
	}

	return VerificationResult{
		Valid:    len(failures) == 0,
		Failures: failures,
	}
}

// NextRecord builds the record that extends the chain ending in prev with
// payload. A nil prev produces a genesis record with an empty prev_hash.
// The returned record's data_hash is computed here; the caller supplies
// identity, time, and (optionally, afterwards) a signature.
func NextRecord(
	prev *IntegrityRecord,
	recordID string,
	timestamp time.Time,
	payload any,
) (IntegrityRecord, error) {
	dataHash, err := canonical.HashPayload(payload)
	if err != nil {
		return IntegrityRecord{}, err
	}

	record := IntegrityRecord{
		RecordID:  recordID,
		Timestamp: timestamp,
		Payload:   payload,
		DataHash:  dataHash,
	}
	if prev != nil {
		record.PrevHash = LinkHash(prev.PrevHash, prev.DataHash)
	}

	return record, nil
}

// SortRecordsByTimestamp orders a copy of records by their production
// timestamps, ties broken by record ID. Timestamps are caller-supplied
// and not tamper-evident, so this ordering is advisory: VerifyChain
// authenticates linkage within the order it is given, not the provenance
// of that order.
func SortRecordsByTimestamp(records []IntegrityRecord) []IntegrityRecord {
	sorted := append([]IntegrityRecord{}, records...)
	sort.SliceStable(sorted, func(index int, other int) bool {
		if sorted[index].Timestamp.Equal(sorted[other].Timestamp) {
			return sorted[index].RecordID < sorted[other].RecordID
		}
		return sorted[index].Timestamp.Before(sorted[other].Timestamp)
	})
	return sorted
}
