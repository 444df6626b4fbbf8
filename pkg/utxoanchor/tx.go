package utxoanchor

import (
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// dustLimit is the smallest change output worth creating, in satoshis.
// Change below it is left to the miner as extra fee.
const dustLimit = 546

// Rough P2PKH transaction size model, in vbytes.
const (
	txOverheadSize = 10
	inputSize      = 148
	changeOutSize  = 34
)

// BuildAnchorTx assembles and signs a transaction committing digest in
// an OP_RETURN output, funded from utxos and returning change to the
// key's own P2PKH address. Inputs are selected largest first until the
// fee at feeRate satoshis per vbyte is covered.
func BuildAnchorTx(
	utxos []UTXO,
	digest []byte,
	feeRate float64,
	key *btcec.PrivateKey,
	params *chaincfg.Params,
) (*wire.MsgTx, error) {
	if len(digest) == 0 || len(digest) > txscript.MaxDataCarrierSize {
		return nil, fmt.Errorf("digest must be 1 to %d bytes", txscript.MaxDataCarrierSize)
	}
	if feeRate <= 0 {
		return nil, fmt.Errorf("fee rate must be positive")
	}
	if key == nil {
		return nil, fmt.Errorf("signing key is required")
	}
	if len(utxos) == 0 {
		return nil, fmt.Errorf("no spendable outputs at funding address")
	}

	fundingScript, err := fundingPkScript(key, params)
	if err != nil {
		return nil, err
	}

	anchorScript, err := txscript.NullDataScript(digest)
	if err != nil {
		return nil, fmt.Errorf("failed to build anchor output script: %w", err)
	}

	candidates := make([]UTXO, len(utxos))
	copy(candidates, utxos)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})

	transaction := wire.NewMsgTx(wire.TxVersion)
	transaction.AddTxOut(wire.NewTxOut(0, anchorScript))

	anchorOutSize := 9 + len(anchorScript)
	size := txOverheadSize + anchorOutSize + changeOutSize

	var selectedValue int64
	selected := 0
	for _, candidate := range candidates {
		hash, err := chainhash.NewHashFromStr(candidate.TxID)
		if err != nil {
			return nil, fmt.Errorf("invalid UTXO txid %q: %w", candidate.TxID, err)
		}
		transaction.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, candidate.Vout), nil, nil))

		selectedValue += candidate.Value
		selected++
		size += inputSize

		if selectedValue >= requiredFee(size, feeRate)+dustLimit {
			break
		}
	}

	fee := requiredFee(size, feeRate)
	if selectedValue < fee {
		return nil, fmt.Errorf(
			"insufficient funds: %d satoshis available, %d needed for fee",
			selectedValue, fee,
		)
	}

	change := selectedValue - fee
	if change >= dustLimit {
		transaction.AddTxOut(wire.NewTxOut(change, fundingScript))
	}

	for index := 0; index < selected; index++ {
		signatureScript, err := txscript.SignatureScript(
			transaction, index, fundingScript, txscript.SigHashAll, key, true,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to sign input %d: %w", index, err)
		}
		transaction.TxIn[index].SignatureScript = signatureScript
	}

	return transaction, nil
}

// FundingAddress returns the P2PKH address anchor transactions spend
// from.
func FundingAddress(key *btcec.PrivateKey, params *chaincfg.Params) (btcutil.Address, error) {
	if key == nil {
		return nil, fmt.Errorf("signing key is required")
	}
	pubKeyHash := btcutil.Hash160(key.PubKey().SerializeCompressed())
	address, err := btcutil.NewAddressPubKeyHash(pubKeyHash, params)
	if err != nil {
		return nil, fmt.Errorf("failed to derive funding address: %w", err)
	}
	return address, nil
}

func fundingPkScript(key *btcec.PrivateKey, params *chaincfg.Params) ([]byte, error) {
	address, err := FundingAddress(key, params)
	if err != nil {
		return nil, err
	}
	script, err := txscript.PayToAddrScript(address)
	if err != nil {
		return nil, fmt.Errorf("failed to build funding script: %w", err)
	}
	return script, nil
}

func requiredFee(size int, feeRate float64) int64 {
	fee := int64(float64(size) * feeRate)
	if fee < int64(size) {
		fee = int64(size)
	}
	return fee
}
