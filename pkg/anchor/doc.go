// Package anchor defines the uniform contract for anchoring batches of
// record identifiers to heterogeneous settlement ledgers, and a gateway
// that routes calls to the registered backend clients.
//
// Three backend families are supported: DAG-style, account-based, and
// UTXO-based ledgers. Their wire formats are not unified, only their
// status and submit result shapes are. Anchoring to one backend has no
// atomicity relationship with anchoring to another.
//
//	gateway, err := anchor.NewGateway(anchor.GatewayConfig{},
//		hederaBackend, evmBackend, utxoBackend)
//
//	result, err := gateway.Submit(ctx, anchor.BackendDAG, recordIDs)
//
// Concrete backends live in pkg/hederaanchor, pkg/evmanchor, and
// pkg/utxoanchor.
package anchor
