// Package chain implements hash-chain linkage and verification for
// tamper-evident integrity records. Each record commits to its payload via
// a canonical content hash, and to its predecessor via a link hash over
// the predecessor's own linkage fields, so mutating or reordering any
// record invalidates every record after it.
//
// Extend a chain:
//
//	genesis, _ := chain.NextRecord(nil, "rec-0", t0, payloadA)
//	second, _ := chain.NextRecord(&genesis, "rec-1", t1, payloadB)
//
// Verify one:
//
//	result := chain.VerifyChain([]chain.IntegrityRecord{genesis, second})
//	if !result.Valid {
//		// result.Failures lists each mismatch in order.
//	}
package chain
