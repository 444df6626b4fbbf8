package evmanchor

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/mycosoft/mindex-sdk-go/pkg/anchor"
)

// Config configures the account anchor backend.
type Config struct {
	// RPCURL is the JSON-RPC endpoint of the EVM node.
	RPCURL string
	// PrivateKey is the hex-encoded key of the account paying for
	// anchor transactions.
	PrivateKey string
	// AnchorAddress receives the zero-value anchor transactions. When
	// empty, transactions are sent to the sender's own address.
	AnchorAddress string
	// GasLimit caps anchor transaction gas. Zero means estimate per
	// submission.
	GasLimit uint64
}

// Client anchors record ID batches as calldata on an EVM chain. It
// implements anchor.Backend.
type Client struct {
	ethClient     *ethclient.Client
	signingKey    *ecdsa.PrivateKey
	senderAddress common.Address
	anchorAddress common.Address
	gasLimit      uint64

	chainIDMu sync.Mutex
	chainID   *big.Int
}

var _ anchor.Backend = (*Client)(nil)

// NewClient creates a new Client. No network call is made until Status
// or Submit.
func NewClient(config Config) (*Client, error) {
	rpcURL := strings.TrimSpace(config.RPCURL)
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL is required")
	}
	parsedURL, err := url.Parse(rpcURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid RPC URL %q", rpcURL)
	}

	signingKey, err := ParseSigningKey(config.PrivateKey)
	if err != nil {
		return nil, err
	}
	senderAddress := crypto.PubkeyToAddress(signingKey.PublicKey)

	anchorAddress := senderAddress
	if trimmed := strings.TrimSpace(config.AnchorAddress); trimmed != "" {
		if !common.IsHexAddress(trimmed) {
			return nil, fmt.Errorf("invalid anchor address %q", trimmed)
		}
		anchorAddress = common.HexToAddress(trimmed)
	}

	ethClient, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC endpoint: %w", err)
	}

	return &Client{
		ethClient:     ethClient,
		signingKey:    signingKey,
		senderAddress: senderAddress,
		anchorAddress: anchorAddress,
		gasLimit:      config.GasLimit,
	}, nil
}

// SenderAddress returns the address anchor transactions are signed with.
func (c *Client) SenderAddress() common.Address {
	return c.senderAddress
}

// Kind implements anchor.Backend.
func (c *Client) Kind() anchor.BackendKind {
	return anchor.BackendAccount
}

// Status reports connectivity plus chain ID, head block, gas price, and
// sync state.
func (c *Client) Status(ctx context.Context) (anchor.Status, error) {
	chainID, err := c.resolveChainID(ctx)
	if err != nil {
		return anchor.Status{}, err
	}

	blockNumber, err := c.ethClient.BlockNumber(ctx)
	if err != nil {
		return anchor.Status{}, fmt.Errorf("failed to read block number: %w", err)
	}

	gasPrice, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return anchor.Status{}, fmt.Errorf("failed to read gas price: %w", err)
	}

	syncProgress, err := c.ethClient.SyncProgress(ctx)
	if err != nil {
		return anchor.Status{}, fmt.Errorf("failed to read sync state: %w", err)
	}

	return anchor.Status{
		Connected: true,
		Health: map[string]any{
			"chain_id":      chainID.String(),
			"block_number":  blockNumber,
			"gas_price_wei": gasPrice.String(),
			"syncing":       syncProgress != nil,
		},
	}, nil
}

// Submit anchors a batch of record IDs as calldata on a zero-value
// transaction. A rejection by the node is reported in the result with the
// node's own wording; it is never retried here.
func (c *Client) Submit(ctx context.Context, recordIDs []string) (anchor.SubmitResult, error) {
	payload, err := anchor.BatchPayload(recordIDs)
	if err != nil {
		return anchor.SubmitResult{}, err
	}

	chainID, err := c.resolveChainID(ctx)
	if err != nil {
		return anchor.SubmitResult{}, err
	}

	nonce, err := c.ethClient.PendingNonceAt(ctx, c.senderAddress)
	if err != nil {
		return anchor.SubmitResult{OK: false, ErrorMessage: err.Error()}, nil
	}

	gasPrice, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return anchor.SubmitResult{OK: false, ErrorMessage: err.Error()}, nil
	}

	gasLimit := c.gasLimit
	if gasLimit == 0 {
		gasLimit, err = c.ethClient.EstimateGas(ctx, ethereum.CallMsg{
			From: c.senderAddress,
			To:   &c.anchorAddress,
			Data: payload,
		})
		if err != nil {
			return anchor.SubmitResult{OK: false, ErrorMessage: err.Error()}, nil
		}
	}

	transaction, err := BuildAnchorTx(nonce, c.anchorAddress, gasLimit, gasPrice, payload)
	if err != nil {
		return anchor.SubmitResult{}, err
	}
	signed, err := SignAnchorTx(transaction, chainID, c.signingKey)
	if err != nil {
		return anchor.SubmitResult{}, err
	}

	if err := c.ethClient.SendTransaction(ctx, signed); err != nil {
		return anchor.SubmitResult{OK: false, ErrorMessage: err.Error()}, nil
	}

	return anchor.SubmitResult{
		OK:   true,
		TxID: signed.Hash().Hex(),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.ethClient.Close()
}

// resolveChainID fetches the chain ID once and caches it. The chain a
// node serves does not change across a connection.
func (c *Client) resolveChainID(ctx context.Context) (*big.Int, error) {
	c.chainIDMu.Lock()
	defer c.chainIDMu.Unlock()

	if c.chainID != nil {
		return c.chainID, nil
	}

	chainID, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain ID: %w", err)
	}
	c.chainID = chainID
	return c.chainID, nil
}
