package anchor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mycosoft/mindex-sdk-go/pkg/canonical"
)

// BatchPayload builds the canonical anchor message for a batch of record
// identifiers. The IDs are deduplicated and sorted so a retried submission
// of the same batch carries byte-identical content, which is what makes
// retrying the request safe to attempt.
func BatchPayload(recordIDs []string) ([]byte, error) {
	if len(recordIDs) == 0 {
		return nil, fmt.Errorf("at least one record ID is required")
	}

	seen := make(map[string]struct{}, len(recordIDs))
	unique := make([]string, 0, len(recordIDs))
	for _, recordID := range recordIDs {
		trimmed := strings.TrimSpace(recordID)
		if trimmed == "" {
			return nil, fmt.Errorf("record IDs must be non-empty")
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		unique = append(unique, trimmed)
	}
	sort.Strings(unique)

	ids := make([]any, 0, len(unique))
	for _, recordID := range unique {
		ids = append(ids, recordID)
	}

	return canonical.Canonicalize(map[string]any{
		"p":          "mdx-1",
		"op":         "anchor",
		"record_ids": ids,
	})
}
