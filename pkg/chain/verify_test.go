package chain

import (
	"math"
	"testing"
	"time"

	"github.com/mycosoft/mindex-sdk-go/pkg/canonical"
)

func buildChain(t *testing.T, payloads ...any) []IntegrityRecord {
	t.Helper()

	records := make([]IntegrityRecord, 0, len(payloads))
	var prev *IntegrityRecord
	base := time.Date(2026, time.February, 9, 12, 0, 0, 0, time.UTC)

	for index, payload := range payloads {
		record, err := NextRecord(prev, recordID(index), base.Add(time.Duration(index)*time.Minute), payload)
		if err != nil {
			t.Fatalf("failed to build record %d: %v", index, err)
		}
		records = append(records, record)
		prev = &records[len(records)-1]
	}

	return records
}

func recordID(index int) string {
	return "rec-" + string(rune('0'+index))
}

func TestLinkHashGenesisSentinel(t *testing.T) {
	withEmpty := LinkHash("", "abc")
	withSentinel := LinkHash(GenesisSentinel, "abc")
	if withEmpty != withSentinel {
		t.Fatalf("empty prev hash must use the all-zero sentinel: %s vs %s", withEmpty, withSentinel)
	}
}

func TestLinkHashRoundTrip(t *testing.T) {
	records := buildChain(t,
		map[string]any{"site": "petri-12", "reading": 1},
		map[string]any{"site": "petri-12", "reading": 2},
	)

	expected := LinkHash(records[0].PrevHash, records[0].DataHash)
	if records[1].PrevHash != expected {
		t.Fatalf("successor prev hash %s does not round-trip link hash %s", records[1].PrevHash, expected)
	}

	result := VerifyChain(records)
	if !result.Valid {
		t.Fatalf("untampered pair failed verification: %+v", result.Failures)
	}
}

func TestVerifyChainThreeValidRecords(t *testing.T) {
	records := buildChain(t,
		map[string]any{"observation": "spore print", "index": 0},
		map[string]any{"observation": "mycelium growth", "index": 1},
		map[string]any{"observation": "fruiting body", "index": 2},
	)

	if records[0].PrevHash != "" {
		t.Fatalf("genesis record must have empty prev hash, got %s", records[0].PrevHash)
	}

	result := VerifyChain(records)
	if !result.Valid {
		t.Fatalf("expected valid chain, got failures: %+v", result.Failures)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("expected empty failures, got %d", len(result.Failures))
	}
}

func TestVerifyChainMutatedPayloadOnly(t *testing.T) {
	records := buildChain(t,
		map[string]any{"observation": "spore print", "index": 0},
		map[string]any{"observation": "mycelium growth", "index": 1},
		map[string]any{"observation": "fruiting body", "index": 2},
	)

	// Mutate P1 in place without touching R1's stored hashes. R2's
	// prev_hash was computed from R1.prev_hash and R1.data_hash, neither
	// of which changed, so the only failure is the content mismatch.
	records[1].Payload = map[string]any{"observation": "tampered", "index": 1}

	result := VerifyChain(records)
	if result.Valid {
		t.Fatal("expected tampered chain to be invalid")
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected exactly one failure, got %+v", result.Failures)
	}
	if result.Failures[0].RecordID != records[1].RecordID {
		t.Fatalf("failure attributed to wrong record: %s", result.Failures[0].RecordID)
	}
	if result.Failures[0].Reason != ReasonDataHashMismatch {
		t.Fatalf("unexpected failure reason: %s", result.Failures[0].Reason)
	}
}

func TestVerifyChainMutatedDataHashBreaksNextLink(t *testing.T) {
	records := buildChain(t,
		map[string]any{"index": 0},
		map[string]any{"index": 1},
		map[string]any{"index": 2},
		map[string]any{"index": 3},
	)

	// Rewriting a stored data hash breaks both the content check for that
	// record and the link its successor carries. Records further along
	// still link to unchanged fields, so tampering never propagates
	// backward and the damage is exactly localized.
	records[1].DataHash = GenesisSentinel

	result := VerifyChain(records)
	if result.Valid {
		t.Fatal("expected tampered chain to be invalid")
	}
	if len(result.Failures) != 2 {
		t.Fatalf("expected two failures, got %+v", result.Failures)
	}
	if result.Failures[0].RecordID != records[1].RecordID || result.Failures[0].Reason != ReasonDataHashMismatch {
		t.Fatalf("unexpected first failure: %+v", result.Failures[0])
	}
	if result.Failures[1].RecordID != records[2].RecordID || result.Failures[1].Reason != ReasonLinkMismatch {
		t.Fatalf("unexpected second failure: %+v", result.Failures[1])
	}
}

func TestVerifyChainReorderingDetected(t *testing.T) {
	records := buildChain(t,
		map[string]any{"index": 0},
		map[string]any{"index": 1},
		map[string]any{"index": 2},
	)

	swapped := []IntegrityRecord{records[0], records[2], records[1]}

	result := VerifyChain(swapped)
	if result.Valid {
		t.Fatal("expected reordered chain to be invalid")
	}
	for _, failure := range result.Failures {
		if failure.Reason != ReasonLinkMismatch {
			t.Fatalf("expected only link mismatches, got %+v", failure)
		}
	}
}

func TestVerifyChainGenesisPrevHashAcceptedAsGiven(t *testing.T) {
	records := buildChain(t, map[string]any{"index": 0}, map[string]any{"index": 1})

	// A chain segment can start mid-ledger: the first record's prev_hash
	// is its stated anchor, not independently verifiable from content.
	anchored, err := NextRecord(&records[1], "rec-2", time.Now().UTC(), map[string]any{"index": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tail, err := NextRecord(&anchored, "rec-3", time.Now().UTC(), map[string]any{"index": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := VerifyChain([]IntegrityRecord{anchored, tail})
	if !result.Valid {
		t.Fatalf("segment starting mid-chain failed verification: %+v", result.Failures)
	}
}

func TestVerifyChainUncanonicalizablePayload(t *testing.T) {
	records := buildChain(t,
		map[string]any{"index": 0},
		map[string]any{"index": 1},
		map[string]any{"index": 2},
	)

	// A payload the hasher rejects is tamper evidence on that record, and
	// must not abort verification of the rest of the sequence.
	records[1].Payload = map[string]any{"broken": math.NaN()}

	result := VerifyChain(records)
	if result.Valid {
		t.Fatal("expected chain with malformed payload to be invalid")
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected exactly one failure, got %+v", result.Failures)
	}
	if result.Failures[0].Reason != ReasonDataHashMismatch {
		t.Fatalf("unexpected failure reason: %s", result.Failures[0].Reason)
	}
}

func TestVerifyChainDeterministic(t *testing.T) {
	records := buildChain(t, map[string]any{"index": 0}, map[string]any{"index": 1})
	records[1].DataHash = GenesisSentinel

	first := VerifyChain(records)
	second := VerifyChain(records)

	if first.Valid != second.Valid || len(first.Failures) != len(second.Failures) {
		t.Fatalf("verification is not deterministic: %+v vs %+v", first, second)
	}
	for index := range first.Failures {
		if first.Failures[index] != second.Failures[index] {
			t.Fatalf("failure %d differs between runs", index)
		}
	}
}

func TestVerifyChainEmptyAndSingle(t *testing.T) {
	if result := VerifyChain(nil); !result.Valid {
		t.Fatalf("empty sequence must verify as valid: %+v", result.Failures)
	}

	records := buildChain(t, map[string]any{"only": true})
	if result := VerifyChain(records); !result.Valid {
		t.Fatalf("single genesis record must verify as valid: %+v", result.Failures)
	}
}

func TestNextRecordDataHashMatchesCanonicalHasher(t *testing.T) {
	payload := map[string]any{"species_id": 4321, "name": "Amanita muscaria"}
	record, err := NextRecord(nil, "rec-0", time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected, err := canonical.HashPayload(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.DataHash != expected {
		t.Fatalf("data hash %s does not match canonical hasher %s", record.DataHash, expected)
	}
}

func TestNextRecordRejectsBadPayload(t *testing.T) {
	_, err := NextRecord(nil, "rec-0", time.Now().UTC(), map[string]any{"x": math.Inf(-1)})
	if err == nil {
		t.Fatal("expected error for non-canonicalizable payload")
	}
}

func TestSortRecordsByTimestampAdvisory(t *testing.T) {
	base := time.Date(2026, time.February, 9, 12, 0, 0, 0, time.UTC)
	records := []IntegrityRecord{
		{RecordID: "b", Timestamp: base.Add(2 * time.Minute)},
		{RecordID: "c", Timestamp: base},
		{RecordID: "a", Timestamp: base},
	}

	sorted := SortRecordsByTimestamp(records)

	if sorted[0].RecordID != "a" || sorted[1].RecordID != "c" || sorted[2].RecordID != "b" {
		t.Fatalf("unexpected order: %s %s %s", sorted[0].RecordID, sorted[1].RecordID, sorted[2].RecordID)
	}
	if records[0].RecordID != "b" {
		t.Fatal("input slice must not be reordered in place")
	}
}
