// Package utxoanchor implements the UTXO settlement backend of the
// anchor gateway. The SHA-256 digest of the anchor batch payload is
// committed in an OP_RETURN output of a signed transaction, broadcast
// through an Esplora-compatible REST API. The full payload does not fit
// the 80 byte OP_RETURN standardness limit, so the digest stands in for
// it; the payload itself is reproducible from the record IDs.
package utxoanchor
