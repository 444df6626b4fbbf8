// Package hederaanchor implements the DAG settlement backend of the
// anchor gateway. Record ID batches are written as consensus topic
// messages on a Hedera network; connectivity and observed fees are read
// from a mirror node.
package hederaanchor
