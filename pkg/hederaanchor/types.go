package hederaanchor

// Config configures the DAG anchor backend. The operator account pays for
// topic message submissions; the topic is the anchor log.
type Config struct {
	Network            string
	OperatorAccountID  string
	OperatorPrivateKey string
	TopicID            string
	MirrorBaseURL      string
	MirrorAPIKey       string
	TransactionMemo    string
}

// CreateTopicOptions controls anchor topic creation.
type CreateTopicOptions struct {
	Memo            string
	TransactionMemo string
}
