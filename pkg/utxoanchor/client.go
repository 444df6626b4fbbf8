package utxoanchor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/mycosoft/mindex-sdk-go/pkg/anchor"
)

const defaultConfirmationTarget = 6

// Client anchors record ID batch digests in OP_RETURN outputs on a
// UTXO chain, using an Esplora-compatible REST API for chain state and
// broadcast. It implements anchor.Backend.
type Client struct {
	baseURL            string
	httpClient         *http.Client
	signingKey         *btcec.PrivateKey
	chainParams        *chaincfg.Params
	fundingAddress     btcutil.Address
	confirmationTarget int
}

var _ anchor.Backend = (*Client)(nil)

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	chainParams, err := chainParamsFor(config.Network)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil || (parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https") {
		return nil, fmt.Errorf("invalid base URL %q", config.BaseURL)
	}

	keyHex := strings.TrimSpace(config.PrivateKey)
	if keyHex == "" {
		return nil, fmt.Errorf("private key is required")
	}
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil || len(keyBytes) != 32 {
		return nil, fmt.Errorf("private key must be 32 hex-encoded bytes")
	}
	signingKey, _ := btcec.PrivKeyFromBytes(keyBytes)

	fundingAddress, err := FundingAddress(signingKey, chainParams)
	if err != nil {
		return nil, err
	}

	confirmationTarget := config.ConfirmationTarget
	if confirmationTarget <= 0 {
		confirmationTarget = defaultConfirmationTarget
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:            baseURL,
		httpClient:         httpClient,
		signingKey:         signingKey,
		chainParams:        chainParams,
		fundingAddress:     fundingAddress,
		confirmationTarget: confirmationTarget,
	}, nil
}

// FundingAddress returns the address anchor transactions spend from.
func (c *Client) FundingAddress() string {
	return c.fundingAddress.EncodeAddress()
}

// Kind implements anchor.Backend.
func (c *Client) Kind() anchor.BackendKind {
	return anchor.BackendUTXO
}

// Status reports connectivity plus tip height and the fee rate at the
// configured confirmation target.
func (c *Client) Status(ctx context.Context) (anchor.Status, error) {
	tipHeight, err := c.TipHeight(ctx)
	if err != nil {
		return anchor.Status{}, err
	}

	feeRate, err := c.FeeRate(ctx)
	if err != nil {
		return anchor.Status{}, err
	}

	return anchor.Status{
		Connected: true,
		Health: map[string]any{
			"network":         c.chainParams.Name,
			"tip_height":      tipHeight,
			"fee_rate_sat_vb": feeRate,
			"funding_address": c.fundingAddress.EncodeAddress(),
		},
	}, nil
}

// Submit anchors the SHA-256 digest of the batch payload in an
// OP_RETURN output. A rejection by the chain is reported in the result
// with the node's own wording; it is never retried here ("insufficient
// fee" and "missing inputs" are for the caller to act on).
func (c *Client) Submit(ctx context.Context, recordIDs []string) (anchor.SubmitResult, error) {
	payload, err := anchor.BatchPayload(recordIDs)
	if err != nil {
		return anchor.SubmitResult{}, err
	}
	digest := sha256.Sum256(payload)

	utxos, err := c.ListUTXOs(ctx)
	if err != nil {
		return anchor.SubmitResult{}, err
	}

	feeRate, err := c.FeeRate(ctx)
	if err != nil {
		return anchor.SubmitResult{}, err
	}

	transaction, err := BuildAnchorTx(utxos, digest[:], feeRate, c.signingKey, c.chainParams)
	if err != nil {
		return anchor.SubmitResult{OK: false, ErrorMessage: err.Error()}, nil
	}

	var serialized bytes.Buffer
	if err := transaction.Serialize(&serialized); err != nil {
		return anchor.SubmitResult{}, fmt.Errorf("failed to serialize anchor transaction: %w", err)
	}

	txID, rejection, err := c.BroadcastTx(ctx, hex.EncodeToString(serialized.Bytes()))
	if err != nil {
		return anchor.SubmitResult{}, err
	}
	if rejection != "" {
		return anchor.SubmitResult{OK: false, ErrorMessage: rejection}, nil
	}

	return anchor.SubmitResult{OK: true, TxID: txID}, nil
}

// TipHeight returns the chain tip height.
func (c *Client) TipHeight(ctx context.Context) (int64, error) {
	body, err := c.getText(ctx, "/blocks/tip/height")
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseInt(strings.TrimSpace(body), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected tip height %q: %w", body, err)
	}
	return height, nil
}

// FeeRate returns the estimated fee rate, in satoshis per vbyte, for
// confirmation within the configured block target.
func (c *Client) FeeRate(ctx context.Context) (float64, error) {
	var estimates map[string]float64
	if err := c.getJSON(ctx, "/fee-estimates", &estimates); err != nil {
		return 0, err
	}

	if rate, found := estimates[strconv.Itoa(c.confirmationTarget)]; found && rate > 0 {
		return rate, nil
	}

	// Fall back to the slowest published estimate rather than guessing.
	best := 0.0
	for _, rate := range estimates {
		if best == 0 || rate < best {
			best = rate
		}
	}
	if best <= 0 {
		return 0, fmt.Errorf("no usable fee estimate for target %d", c.confirmationTarget)
	}
	return best, nil
}

// ListUTXOs returns the confirmed unspent outputs at the funding
// address.
func (c *Client) ListUTXOs(ctx context.Context) ([]UTXO, error) {
	var utxos []UTXO
	path := fmt.Sprintf("/address/%s/utxo", c.fundingAddress.EncodeAddress())
	if err := c.getJSON(ctx, path, &utxos); err != nil {
		return nil, err
	}

	confirmed := make([]UTXO, 0, len(utxos))
	for _, utxo := range utxos {
		if utxo.State.Confirmed {
			confirmed = append(confirmed, utxo)
		}
	}
	return confirmed, nil
}

// BroadcastTx submits a hex-encoded raw transaction. A non-2xx response
// is a chain rejection and is returned verbatim as rejection text; only
// transport failures surface as errors.
func (c *Client) BroadcastTx(ctx context.Context, rawTxHex string) (string, string, error) {
	request, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/tx", strings.NewReader(rawTxHex),
	)
	if err != nil {
		return "", "", fmt.Errorf("failed to create broadcast request: %w", err)
	}
	request.Header.Set("Content-Type", "text/plain")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", "", fmt.Errorf("broadcast request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read broadcast response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", strings.TrimSpace(string(body)), nil
	}

	return strings.TrimSpace(string(body)), "", nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("chain API request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chain API response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf(
			"chain API request failed with status %d: %s",
			response.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	return string(body), nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	body, err := c.getText(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), target); err != nil {
		return fmt.Errorf("failed to decode chain API response: %w", err)
	}
	return nil
}

func chainParamsFor(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "", "testnet":
		return &chaincfg.TestNet3Params, nil
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}
