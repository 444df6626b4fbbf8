package inscription

import "fmt"

// CompressionError reports a failed compression step. Unless the caller
// required compression, builders treat it as equivalent to choosing the
// uncompressed path rather than aborting.
type CompressionError struct {
	Message string
	Cause   error
}

func (e *CompressionError) Error() string {
	if e == nil {
		return "compression failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CompressionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// InvalidEstimateInputError reports a fee-rate or price input a cost
// estimate cannot be derived from. It is fatal to the single estimate
// call that produced it.
type InvalidEstimateInputError struct {
	Field string
	Value float64
}

func (e *InvalidEstimateInputError) Error() string {
	if e == nil {
		return "invalid estimate input"
	}
	return fmt.Sprintf("invalid estimate input: %s must be a non-negative finite number, got %v", e.Field, e.Value)
}
