package utxoanchor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const testKeyHex = "1111111111111111111111111111111111111111111111111111111111111111"

func testKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()
	keyBytes, err := hex.DecodeString(testKeyHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, _ := btcec.PrivKeyFromBytes(keyBytes)
	return key
}

func testDigest() []byte {
	digest := sha256.Sum256([]byte(`{"op":"anchor","p":"mdx-1","record_ids":["rec-1"]}`))
	return digest[:]
}

func TestFundingAddressDeterministic(t *testing.T) {
	key := testKey(t)
	first, err := FundingAddress(key, &chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := FundingAddress(key, &chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.EncodeAddress() != second.EncodeAddress() {
		t.Fatal("expected deterministic funding address")
	}
	if first.EncodeAddress() == "" {
		t.Fatal("expected non-empty funding address")
	}
}

func TestBuildAnchorTxCommitsDigest(t *testing.T) {
	key := testKey(t)
	utxos := []UTXO{
		{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 100_000, State: UTXOStatus{Confirmed: true}},
	}

	transaction, err := BuildAnchorTx(utxos, testDigest(), 2.0, key, &chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transaction.TxOut) != 2 {
		t.Fatalf("expected anchor and change outputs, got %d", len(transaction.TxOut))
	}

	anchorOut := transaction.TxOut[0]
	if anchorOut.Value != 0 {
		t.Fatalf("expected zero-value anchor output, got %d", anchorOut.Value)
	}
	if anchorOut.PkScript[0] != txscript.OP_RETURN {
		t.Fatalf("expected OP_RETURN script, got opcode %#x", anchorOut.PkScript[0])
	}
	if !bytes.Contains(anchorOut.PkScript, testDigest()) {
		t.Fatal("expected digest inside anchor output script")
	}

	changeOut := transaction.TxOut[1]
	if changeOut.Value <= 0 || changeOut.Value >= 100_000 {
		t.Fatalf("unexpected change value: %d", changeOut.Value)
	}
}

func TestBuildAnchorTxSignatureVerifies(t *testing.T) {
	key := testKey(t)
	const inputValue = int64(50_000)
	utxos := []UTXO{
		{TxID: strings.Repeat("cd", 32), Vout: 1, Value: inputValue, State: UTXOStatus{Confirmed: true}},
	}

	transaction, err := BuildAnchorTx(utxos, testDigest(), 1.5, key, &chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fundingScript, err := fundingPkScript(key, &chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vm, err := txscript.NewEngine(
		fundingScript,
		transaction,
		0,
		txscript.StandardVerifyFlags,
		nil,
		nil,
		inputValue,
		txscript.NewCannedPrevOutputFetcher(fundingScript, inputValue),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("signature did not verify: %v", err)
	}
}

func TestBuildAnchorTxSelectsLargestFirst(t *testing.T) {
	key := testKey(t)
	utxos := []UTXO{
		{TxID: strings.Repeat("01", 32), Vout: 0, Value: 1_000, State: UTXOStatus{Confirmed: true}},
		{TxID: strings.Repeat("02", 32), Vout: 0, Value: 80_000, State: UTXOStatus{Confirmed: true}},
	}

	transaction, err := BuildAnchorTx(utxos, testDigest(), 2.0, key, &chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transaction.TxIn) != 1 {
		t.Fatalf("expected single input, got %d", len(transaction.TxIn))
	}
	if transaction.TxIn[0].PreviousOutPoint.Hash.String() != strings.Repeat("02", 32) {
		t.Fatalf("expected largest UTXO selected, got %s", transaction.TxIn[0].PreviousOutPoint.Hash)
	}
}

func TestBuildAnchorTxInsufficientFunds(t *testing.T) {
	key := testKey(t)
	utxos := []UTXO{
		{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 10, State: UTXOStatus{Confirmed: true}},
	}
	if _, err := BuildAnchorTx(utxos, testDigest(), 5.0, key, &chaincfg.TestNet3Params); err == nil {
		t.Fatal("expected error for insufficient funds")
	}
}

func TestBuildAnchorTxNoUTXOs(t *testing.T) {
	if _, err := BuildAnchorTx(nil, testDigest(), 1.0, testKey(t), &chaincfg.TestNet3Params); err == nil {
		t.Fatal("expected error for empty UTXO set")
	}
}

func TestBuildAnchorTxDigestTooLarge(t *testing.T) {
	oversize := bytes.Repeat([]byte{0x01}, txscript.MaxDataCarrierSize+1)
	utxos := []UTXO{
		{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 100_000, State: UTXOStatus{Confirmed: true}},
	}
	if _, err := BuildAnchorTx(utxos, oversize, 1.0, testKey(t), &chaincfg.TestNet3Params); err == nil {
		t.Fatal("expected error for oversize digest")
	}
}

func TestBuildAnchorTxBadFeeRate(t *testing.T) {
	utxos := []UTXO{
		{TxID: strings.Repeat("ab", 32), Vout: 0, Value: 100_000, State: UTXOStatus{Confirmed: true}},
	}
	if _, err := BuildAnchorTx(utxos, testDigest(), 0, testKey(t), &chaincfg.TestNet3Params); err == nil {
		t.Fatal("expected error for zero fee rate")
	}
}
