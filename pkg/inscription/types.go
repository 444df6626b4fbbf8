package inscription

// ProtocolID tags the encoding scheme generation. It is carried verbatim
// in every envelope so future decoders can branch on it.
const ProtocolID = "mdx-1"

// ProtocolVersion is the current envelope format version.
const ProtocolVersion = "1.0"

// ContentType declares the media kind of an envelope body.
type ContentType string

const (
	// ContentTypeSequence is raw genetic sequence data.
	ContentTypeSequence ContentType = "sequence"
	// ContentTypeTaxonomy is a taxonomic record.
	ContentTypeTaxonomy ContentType = "taxonomy"
	// ContentTypeObservation is a field observation record.
	ContentTypeObservation ContentType = "observation"
	// ContentTypeStructured is generic structured data.
	ContentTypeStructured ContentType = "structured"
)

// Envelope is the self-describing package prepared for publication to a
// byte-metered settlement ledger. Envelopes are ephemeral: built on
// demand, submitted or displayed, then discarded.
type Envelope struct {
	ContentType ContentType    `cbor:"content_type" json:"content_type"`
	Protocol    string         `cbor:"p" json:"p"`
	Version     string         `cbor:"v" json:"v"`
	Metadata    map[string]any `cbor:"metadata,omitempty" json:"metadata,omitempty"`
	// DataHash is the lowercase hex digest of the canonicalized payload,
	// computed before any compression.
	DataHash string `cbor:"data_hash" json:"data_hash"`
	// Compressed records unambiguously which path the body bytes took.
	// Decoders branch on this flag and never guess from content.
	Compressed bool   `cbor:"compressed" json:"compressed"`
	Body       []byte `cbor:"body" json:"body"`
}

// SubmissionPayload is the projection of an envelope that a ledger
// submission layer needs, nothing more.
type SubmissionPayload struct {
	ContentType ContentType    `json:"contentType"`
	Body        []byte         `json:"body"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CostEstimate is derived from an envelope and current market inputs. It
// is never persisted and always recomputed when the fee inputs change.
type CostEstimate struct {
	SizeBytes          int     `json:"sizeBytes"`
	EstimatedFeeUnits  float64 `json:"estimatedFeeUnits"`
	EstimatedFiatValue float64 `json:"estimatedFiatValue"`
}

// BuildOptions tunes envelope construction. The zero value selects the
// current protocol tags and the default compression threshold.
type BuildOptions struct {
	// Protocol overrides ProtocolID. Carried verbatim into the envelope.
	Protocol string
	// Version overrides ProtocolVersion. Carried verbatim into the envelope.
	Version string
	// CompressionThreshold is the canonical payload size in bytes above
	// which the body is compressed. Zero selects DefaultCompressionThreshold.
	CompressionThreshold int
	// RequireCompression turns a compression failure into an error instead
	// of falling back to the uncompressed path.
	RequireCompression bool
}

// SequenceMetadata is the header shape for sequence envelopes.
type SequenceMetadata struct {
	SpeciesID      string `json:"species_id"`
	CanonicalName  string `json:"canonical_name"`
	SequenceKind   string `json:"sequence_kind"`
	SequenceLength int    `json:"sequence_length"`
}

// Map renders the metadata in the form envelopes carry.
func (m SequenceMetadata) Map() map[string]any {
	return map[string]any{
		"species_id":      m.SpeciesID,
		"canonical_name":  m.CanonicalName,
		"sequence_kind":   m.SequenceKind,
		"sequence_length": m.SequenceLength,
	}
}

// TaxonMetadata is the header shape for taxonomy envelopes.
type TaxonMetadata struct {
	TaxonID       string `json:"taxon_id"`
	CanonicalName string `json:"canonical_name"`
	Rank          string `json:"rank"`
	ParentTaxonID string `json:"parent_taxon_id,omitempty"`
}

// Map renders the metadata in the form envelopes carry.
func (m TaxonMetadata) Map() map[string]any {
	result := map[string]any{
		"taxon_id":       m.TaxonID,
		"canonical_name": m.CanonicalName,
		"rank":           m.Rank,
	}
	if m.ParentTaxonID != "" {
		result["parent_taxon_id"] = m.ParentTaxonID
	}
	return result
}

// ObservationMetadata is the header shape for observation envelopes.
type ObservationMetadata struct {
	ObserverID string `json:"observer_id"`
	Site       string `json:"site"`
	ObservedAt string `json:"observed_at"`
	Instrument string `json:"instrument,omitempty"`
}

// Map renders the metadata in the form envelopes carry.
func (m ObservationMetadata) Map() map[string]any {
	result := map[string]any{
		"observer_id": m.ObserverID,
		"site":        m.Site,
		"observed_at": m.ObservedAt,
	}
	if m.Instrument != "" {
		result["instrument"] = m.Instrument
	}
	return result
}
