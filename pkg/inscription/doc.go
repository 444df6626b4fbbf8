// Package inscription builds and decodes the self-describing binary
// envelopes that record payloads are published in, and derives byte-cost
// estimates for them. An envelope carries the protocol and version tags,
// a content-type-specific metadata header, the content digest of the
// canonicalized payload, and the (optionally brotli-compressed) body.
// Envelopes encode with CBOR Core Deterministic Encoding, so the same
// logical envelope always produces identical published bytes.
//
// Build and size an envelope:
//
//	envelope, err := inscription.BuildInscription(
//		inscription.ContentTypeObservation,
//		inscription.ObservationMetadata{
//			ObserverID: "obs-17",
//			Site:       "petri-12",
//			ObservedAt: "2026-02-09T12:00:00Z",
//		}.Map(),
//		payload,
//		inscription.BuildOptions{},
//	)
//
//	estimate, err := inscription.EstimateCost(envelope, feeRate, priceRef)
//
// All functions are pure: building, encoding, and estimating have no side
// effects and are safe for concurrent use.
package inscription
