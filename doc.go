// The Mindex Integrity SDK for Go provides the integrity layer of the
// Mindex environmental data platform: canonical content hashing,
// hash-chain verification for observation records, a compressed binary
// inscription envelope with byte-accurate cost estimation, and a gateway
// for anchoring record batches to DAG, account, and UTXO settlement
// ledgers.
//
// # Packages
//
//   - canonical: deterministic JSON serialization and SHA-256 digests
//   - chain: integrity records, link hashing, and chain verification
//   - inscription: envelope building, codec, and cost estimation
//   - anchor: the ledger anchor gateway and backend contract
//   - hederaanchor, evmanchor, utxoanchor: concrete settlement backends
//   - mirror: read-only Hedera mirror node client
//   - shared: network and credential helpers
//
// # Installation
//
//	go get github.com/mycosoft/mindex-sdk-go@latest
package mindex_sdk_go
