package inscription

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/mycosoft/mindex-sdk-go/pkg/canonical"
)

// DefaultCompressionThreshold is the canonical payload size in bytes above
// which envelope bodies are brotli-compressed.
const DefaultCompressionThreshold = 1024

// BuildInscription canonicalizes payload, computes its content digest over
// the pre-compression bytes, and packages everything into a publishable
// envelope. Bodies larger than the compression threshold are brotli
// compressed and the Compressed flag records which path was taken.
// Metadata is copied through unchanged; callers supply a shape appropriate
// to the declared content type (see ValidateEnvelope).
func BuildInscription(
	contentType ContentType,
	metadata map[string]any,
	payload any,
	options BuildOptions,
) (Envelope, error) {
	if !isKnownContentType(contentType) {
		return Envelope{}, fmt.Errorf("unsupported content type %q", contentType)
	}

	protocol := options.Protocol
	if protocol == "" {
		protocol = ProtocolID
	}
	version := options.Version
	if version == "" {
		version = ProtocolVersion
	}
	threshold := options.CompressionThreshold
	if threshold <= 0 {
		threshold = DefaultCompressionThreshold
	}

	serialized, err := canonical.Canonicalize(payload)
	if err != nil {
		return Envelope{}, err
	}
	dataHash := canonical.HashBytes(serialized)

	body := serialized
	compressed := false
	if len(serialized) > threshold {
		compressedBody, compressErr := compress(serialized)
		if compressErr != nil {
			if options.RequireCompression {
				return Envelope{}, compressErr
			}
		} else {
			body = compressedBody
			compressed = true
		}
	}

	return Envelope{
		ContentType: contentType,
		Protocol:    protocol,
		Version:     version,
		Metadata:    copyMetadata(metadata),
		DataHash:    dataHash,
		Compressed:  compressed,
		Body:        body,
	}, nil
}

// DecodeBody returns the serialized payload bytes of an envelope,
// decompressing strictly when the Compressed flag says so.
func DecodeBody(envelope Envelope) ([]byte, error) {
	if !envelope.Compressed {
		return append([]byte{}, envelope.Body...), nil
	}

	reader := brotli.NewReader(bytes.NewReader(envelope.Body))
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, &CompressionError{
			Message: "failed to decompress envelope body",
			Cause:   err,
		}
	}
	return decompressed, nil
}

// PrepareForSubmission projects the envelope onto exactly what a ledger
// submission layer needs. Nothing is mutated or re-derived.
func PrepareForSubmission(envelope Envelope) SubmissionPayload {
	return SubmissionPayload{
		ContentType: envelope.ContentType,
		Body:        envelope.Body,
		Metadata:    envelope.Metadata,
	}
}

func compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := brotli.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		return nil, &CompressionError{Message: "brotli write failed", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &CompressionError{Message: "brotli close failed", Cause: err}
	}
	return buffer.Bytes(), nil
}

func copyMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	result := make(map[string]any, len(metadata))
	for key, value := range metadata {
		result[key] = value
	}
	return result
}

func isKnownContentType(contentType ContentType) bool {
	switch contentType {
	case ContentTypeSequence, ContentTypeTaxonomy, ContentTypeObservation, ContentTypeStructured:
		return true
	default:
		return false
	}
}
