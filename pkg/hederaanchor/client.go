package hederaanchor

import (
	"context"
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/mycosoft/mindex-sdk-go/pkg/anchor"
	"github.com/mycosoft/mindex-sdk-go/pkg/mirror"
	"github.com/mycosoft/mindex-sdk-go/pkg/shared"
)

// Client anchors record ID batches as consensus topic messages on a
// Hedera network. It implements anchor.Backend.
type Client struct {
	hederaClient    *hedera.Client
	mirrorClient    *mirror.Client
	network         string
	topicID         hedera.TopicID
	transactionMemo string
}

var _ anchor.Backend = (*Client)(nil)

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	operatorID := strings.TrimSpace(config.OperatorAccountID)
	if operatorID == "" {
		return nil, fmt.Errorf("operator account ID is required")
	}
	operatorKey := strings.TrimSpace(config.OperatorPrivateKey)
	if operatorKey == "" {
		return nil, fmt.Errorf("operator private key is required")
	}
	if strings.TrimSpace(config.TopicID) == "" {
		return nil, fmt.Errorf("anchor topic ID is required")
	}

	parsedOperatorID, err := hedera.AccountIDFromString(operatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator account ID: %w", err)
	}
	parsedOperatorKey, err := shared.ParsePrivateKey(operatorKey)
	if err != nil {
		return nil, err
	}
	parsedTopicID, err := hedera.TopicIDFromString(strings.TrimSpace(config.TopicID))
	if err != nil {
		return nil, fmt.Errorf("invalid anchor topic ID: %w", err)
	}

	hederaClient, err := shared.NewHederaClient(network)
	if err != nil {
		return nil, err
	}
	hederaClient.SetOperator(parsedOperatorID, parsedOperatorKey)

	mirrorClient, err := mirror.NewClient(mirror.Config{
		Network: network,
		BaseURL: config.MirrorBaseURL,
		APIKey:  config.MirrorAPIKey,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		hederaClient:    hederaClient,
		mirrorClient:    mirrorClient,
		network:         network,
		topicID:         parsedTopicID,
		transactionMemo: strings.TrimSpace(config.TransactionMemo),
	}, nil
}

// MirrorClient returns the configured mirror node client.
func (c *Client) MirrorClient() *mirror.Client {
	return c.mirrorClient
}

// Kind implements anchor.Backend.
func (c *Client) Kind() anchor.BackendKind {
	return anchor.BackendDAG
}

// Status reports connectivity using the mirror node's address book. A
// reachable mirror with at least one consensus node counts as connected.
func (c *Client) Status(ctx context.Context) (anchor.Status, error) {
	nodes, err := c.mirrorClient.GetNetworkNodes(ctx)
	if err != nil {
		return anchor.Status{}, fmt.Errorf("failed to read network nodes: %w", err)
	}

	return anchor.Status{
		Connected: len(nodes) > 0,
		Health: map[string]any{
			"network":    c.network,
			"node_count": len(nodes),
			"topic_id":   c.topicID.String(),
		},
	}, nil
}

// Submit anchors a batch of record IDs as a single topic message. A
// rejection by the network is reported in the result with the network's
// own wording; it is never retried here.
func (c *Client) Submit(ctx context.Context, recordIDs []string) (anchor.SubmitResult, error) {
	payload, err := anchor.BatchPayload(recordIDs)
	if err != nil {
		return anchor.SubmitResult{}, err
	}

	transaction, err := BuildAnchorMessageTx(c.topicID, payload, c.transactionMemo)
	if err != nil {
		return anchor.SubmitResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return anchor.SubmitResult{}, err
	}

	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return anchor.SubmitResult{OK: false, ErrorMessage: err.Error()}, nil
	}
	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return anchor.SubmitResult{OK: false, ErrorMessage: err.Error()}, nil
	}
	if receipt.Status != hedera.StatusSuccess {
		return anchor.SubmitResult{OK: false, ErrorMessage: receipt.Status.String()}, nil
	}

	return anchor.SubmitResult{
		OK:   true,
		TxID: response.TransactionID.String(),
	}, nil
}

// CreateAnchorTopic creates a new anchor topic and returns its ID.
func (c *Client) CreateAnchorTopic(
	ctx context.Context,
	options CreateTopicOptions,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	transaction := BuildCreateAnchorTopicTx(options)
	response, err := transaction.Execute(c.hederaClient)
	if err != nil {
		return "", fmt.Errorf("failed to execute anchor topic create transaction: %w", err)
	}
	receipt, err := response.GetReceipt(c.hederaClient)
	if err != nil {
		return "", fmt.Errorf("failed to get anchor topic create receipt: %w", err)
	}
	if receipt.TopicID == nil {
		return "", fmt.Errorf("anchor topic create returned no topic ID")
	}
	return receipt.TopicID.String(), nil
}

// ObservedFee returns the fee, in tinybars, that an executed anchor
// submission actually cost, as reported by the mirror node. Returns false
// when the mirror node has not seen the transaction yet.
func (c *Client) ObservedFee(ctx context.Context, transactionID string) (int64, bool, error) {
	transaction, err := c.mirrorClient.GetTransaction(ctx, transactionID)
	if err != nil {
		return 0, false, err
	}
	if transaction == nil {
		return 0, false, nil
	}
	return transaction.ChargedTxFee, true, nil
}
