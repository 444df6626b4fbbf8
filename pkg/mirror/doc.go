// Package mirror is a read-only Hedera mirror node client. The DAG anchor
// backend uses it for network health, for auditing previously anchored
// batches on a topic, and for looking up the fee a submission actually
// cost.
package mirror
