package anchor

import "fmt"

// SubmitError carries a settlement backend's failure report. The message
// is the backend's own wording, surfaced verbatim and never retried
// automatically: retry policy depends on backend idempotency guarantees
// this package does not assume.
type SubmitError struct {
	Backend BackendKind
	Message string
}

func (e *SubmitError) Error() string {
	if e == nil {
		return "anchor submission failed"
	}
	return fmt.Sprintf("%s backend rejected submission: %s", e.Backend, e.Message)
}
