package hederaanchor

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// BuildCreateAnchorTopicTx builds an unexecuted topic create transaction
// for a new anchor log.
func BuildCreateAnchorTopicTx(options CreateTopicOptions) *hedera.TopicCreateTransaction {
	memo := strings.TrimSpace(options.Memo)
	if memo == "" {
		memo = "mdx-1:anchor"
	}

	transaction := hedera.NewTopicCreateTransaction().SetTopicMemo(memo)
	if strings.TrimSpace(options.TransactionMemo) != "" {
		transaction.SetTransactionMemo(strings.TrimSpace(options.TransactionMemo))
	}
	return transaction
}

// BuildAnchorMessageTx builds an unexecuted topic message submit
// transaction carrying an anchor batch payload.
func BuildAnchorMessageTx(
	topicID hedera.TopicID,
	payload []byte,
	transactionMemo string,
) (*hedera.TopicMessageSubmitTransaction, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("anchor payload is required")
	}

	transaction := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topicID).
		SetMessage(payload)
	if strings.TrimSpace(transactionMemo) != "" {
		transaction.SetTransactionMemo(strings.TrimSpace(transactionMemo))
	}

	return transaction, nil
}
