package inscription

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. The same envelope always encodes to identical
// bytes, so the published size a cost estimate is derived from is stable.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("inscription: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("inscription: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeEnvelope serializes the envelope, headers and body together, into
// its published binary representation.
func EncodeEnvelope(envelope Envelope) ([]byte, error) {
	encoded, err := encMode.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return encoded, nil
}

// DecodeEnvelope parses the published binary representation back into an
// envelope. The body is carried as-is; use DecodeBody to recover the
// serialized payload.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := decMode.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return envelope, nil
}

// EncodedSize returns the byte length of the fully prepared envelope
// representation, header fields included, because that is what is
// actually published.
func EncodedSize(envelope Envelope) (int, error) {
	encoded, err := EncodeEnvelope(envelope)
	if err != nil {
		return 0, err
	}
	return len(encoded), nil
}
