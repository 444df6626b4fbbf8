package evmanchor

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ParseSigningKey parses a hex-encoded secp256k1 private key, with or
// without a 0x prefix.
func ParseSigningKey(raw string) (*ecdsa.PrivateKey, error) {
	candidate := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if candidate == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	key, err := crypto.HexToECDSA(candidate)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// BuildAnchorTx builds an unsigned zero-value transaction whose calldata
// is the anchor batch payload.
func BuildAnchorTx(
	nonce uint64,
	to common.Address,
	gasLimit uint64,
	gasPrice *big.Int,
	payload []byte,
) (*types.Transaction, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("anchor payload is required")
	}
	if gasPrice == nil || gasPrice.Sign() <= 0 {
		return nil, fmt.Errorf("gas price must be positive")
	}

	return types.NewTransaction(nonce, to, big.NewInt(0), gasLimit, gasPrice, payload), nil
}

// SignAnchorTx signs an anchor transaction for the given chain.
func SignAnchorTx(
	transaction *types.Transaction,
	chainID *big.Int,
	key *ecdsa.PrivateKey,
) (*types.Transaction, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain ID must be positive")
	}

	signed, err := types.SignTx(transaction, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign anchor transaction: %w", err)
	}
	return signed, nil
}
