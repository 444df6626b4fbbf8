// Package shared provides common utilities used across the Mindex
// Integrity SDK: network name normalization, operator credential loading
// for the DAG anchor backend, Hedera client construction, and private
// key parsing.
//
// Operator credentials are read from HEDERA_ACCOUNT_ID and
// HEDERA_PRIVATE_KEY (with HEDERA_OPERATOR_* and OPERATOR_* accepted as
// fallbacks), optionally loaded from a .env file found in the working
// directory or one of its ancestors.
package shared
