package mirror

// TopicInfo describes an anchor topic as the mirror node sees it.
type TopicInfo struct {
	TopicID          string         `json:"topic_id"`
	Memo             string         `json:"memo"`
	Deleted          bool           `json:"deleted"`
	CreatedTimestamp string         `json:"created_timestamp"`
	SubmitKey        map[string]any `json:"submit_key"`
}

// TopicMessage is one consensus-ordered message on an anchor topic.
// Anchor batch payloads fit in a single message, so chunked reads are
// not modeled here.
type TopicMessage struct {
	ConsensusTimestamp string `json:"consensus_timestamp"`
	Message            string `json:"message"`
	PayerAccountID     string `json:"payer_account_id"`
	RunningHash        string `json:"running_hash"`
	SequenceNumber     int64  `json:"sequence_number"`
	TopicID            string `json:"topic_id"`
}

type topicMessagesResponse struct {
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
	Messages []TopicMessage `json:"messages"`
}

// NetworkNode is one consensus node in the mirror node's address book.
type NetworkNode struct {
	NodeID        int64  `json:"node_id"`
	NodeAccountID string `json:"node_account_id"`
	Description   string `json:"description"`
	Stake         int64  `json:"stake"`
	MinStake      int64  `json:"min_stake"`
	MaxStake      int64  `json:"max_stake"`
}

type networkNodesResponse struct {
	Nodes []NetworkNode `json:"nodes"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// Transaction is the mirror node's view of an executed transaction,
// carrying the fee that was actually charged for an anchor submission.
type Transaction struct {
	ChargedTxFee       int64      `json:"charged_tx_fee"`
	ConsensusTimestamp string     `json:"consensus_timestamp"`
	Result             string     `json:"result"`
	TransactionID      string     `json:"transaction_id"`
	Transfers          []Transfer `json:"transfers"`
}

// Transfer is one balance movement inside a transaction.
type Transfer struct {
	Account    string `json:"account"`
	Amount     int64  `json:"amount"`
	IsApproval bool   `json:"is_approval"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Links        struct {
		Next string `json:"next"`
	} `json:"links"`
}
