package inscription

import (
	"fmt"
	"strings"
)

// metadataKeys lists the header keys each content type's metadata must
// carry. Structured envelopes take any metadata, including none.
var metadataKeys = map[ContentType][]string{
	ContentTypeSequence:    {"species_id", "canonical_name", "sequence_kind", "sequence_length"},
	ContentTypeTaxonomy:    {"taxon_id", "canonical_name", "rank"},
	ContentTypeObservation: {"observer_id", "site", "observed_at"},
}

// ValidateEnvelope reports every problem with an envelope's header fields.
// Metadata values are not inspected beyond requiring the keys appropriate
// to the declared content type.
func ValidateEnvelope(envelope Envelope) []string {
	problems := make([]string, 0)

	if !isKnownContentType(envelope.ContentType) {
		problems = append(problems, fmt.Sprintf("content_type %q is not supported", envelope.ContentType))
	}
	if strings.TrimSpace(envelope.Protocol) == "" {
		problems = append(problems, "p (protocol) is required")
	}
	if strings.TrimSpace(envelope.Version) == "" {
		problems = append(problems, "v (version) is required")
	}
	if len(envelope.DataHash) != 64 || !isLowerHex(envelope.DataHash) {
		problems = append(problems, "data_hash must be 64 lowercase hex characters")
	}
	if len(envelope.Body) == 0 {
		problems = append(problems, "body is required")
	}

	for _, key := range metadataKeys[envelope.ContentType] {
		if _, ok := envelope.Metadata[key]; !ok {
			problems = append(problems, fmt.Sprintf("metadata.%s is required for content_type %s", key, envelope.ContentType))
		}
	}

	return problems
}

func isLowerHex(value string) bool {
	for _, r := range value {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
