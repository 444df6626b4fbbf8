// Package evmanchor implements the account settlement backend of the
// anchor gateway. Record ID batches travel as calldata on a signed
// zero-value transaction sent to a designated anchor address on an EVM
// chain.
package evmanchor
