package inscription

import "math"

// EstimateCost derives byte-size-based fee and fiat estimates for a
// prepared envelope. feeRate is the ledger's current fee in native units
// per byte and priceRef the native-unit-to-fiat conversion rate; both are
// caller-supplied market inputs, never fetched here. The estimate covers
// the full encoded envelope, headers included. Pure and total given valid
// inputs; estimates must be recomputed whenever a fee input changes.
func EstimateCost(envelope Envelope, feeRate float64, priceRef float64) (CostEstimate, error) {
	if err := checkEstimateInput("feeRate", feeRate); err != nil {
		return CostEstimate{}, err
	}
	if err := checkEstimateInput("priceRef", priceRef); err != nil {
		return CostEstimate{}, err
	}

	sizeBytes, err := EncodedSize(envelope)
	if err != nil {
		return CostEstimate{}, err
	}

	feeUnits := float64(sizeBytes) * feeRate
	return CostEstimate{
		SizeBytes:          sizeBytes,
		EstimatedFeeUnits:  feeUnits,
		EstimatedFiatValue: feeUnits * priceRef,
	}, nil
}

func checkEstimateInput(field string, value float64) error {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return &InvalidEstimateInputError{Field: field, Value: value}
	}
	return nil
}
