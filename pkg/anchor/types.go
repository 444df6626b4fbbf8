package anchor

import "context"

// BackendKind identifies one of the supported settlement ledger families.
type BackendKind string

const (
	// BackendDAG is a DAG-style consensus ledger (e.g. a hashgraph).
	BackendDAG BackendKind = "dag"
	// BackendAccount is an account-based ledger (e.g. an EVM chain).
	BackendAccount BackendKind = "account"
	// BackendUTXO is a UTXO-based ledger (e.g. Bitcoin).
	BackendUTXO BackendKind = "utxo"
)

// Status reports a backend's connectivity and health.
type Status struct {
	Connected bool           `json:"connected"`
	Health    map[string]any `json:"health_metrics,omitempty"`
}

// SubmitResult is a backend's answer to an anchor submission. TxID is the
// backend's transaction reference when OK; ErrorMessage carries the
// backend's own wording verbatim when not.
type SubmitResult struct {
	OK           bool   `json:"ok"`
	TxID         string `json:"tx_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Backend is the uniform contract every settlement ledger client exposes.
// Submitting the same record IDs again must be safe to attempt; whether
// the backend deduplicates is its own guarantee and is not assumed here.
// Implementations must honor ctx cancellation and deadlines.
type Backend interface {
	Kind() BackendKind
	Status(ctx context.Context) (Status, error)
	Submit(ctx context.Context, recordIDs []string) (SubmitResult, error)
}
