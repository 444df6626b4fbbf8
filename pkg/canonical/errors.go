package canonical

import "fmt"

// EncodingError reports a payload that cannot be canonically serialized,
// such as NaN or infinite numbers, unsupported Go types, or nesting deep
// enough to indicate a self-referencing structure. It is fatal to the
// single operation that produced it and is never retried.
type EncodingError struct {
	Message string
	Cause   error
}

func (e *EncodingError) Error() string {
	if e == nil {
		return "canonical encoding failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *EncodingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
