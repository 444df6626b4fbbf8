package utxoanchor

import "net/http"

// Config configures the UTXO anchor backend.
type Config struct {
	// Network selects chain parameters: "mainnet" or "testnet".
	Network string
	// BaseURL is an Esplora-compatible REST endpoint.
	BaseURL string
	// PrivateKey is the hex-encoded key of the funding address. Anchor
	// transactions spend from and return change to the P2PKH address
	// derived from it.
	PrivateKey string
	// ConfirmationTarget is the block target used when picking a fee
	// rate. Zero means 6 blocks.
	ConfirmationTarget int
	HTTPClient         *http.Client
}

// UTXO is one unspent output at the funding address.
type UTXO struct {
	TxID  string     `json:"txid"`
	Vout  uint32     `json:"vout"`
	Value int64      `json:"value"`
	State UTXOStatus `json:"status"`
}

// UTXOStatus is the confirmation state of an unspent output.
type UTXOStatus struct {
	Confirmed   bool  `json:"confirmed"`
	BlockHeight int64 `json:"block_height"`
}
