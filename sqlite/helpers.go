package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docbridge"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// formatTime formats t for storage, keeping sub-second precision.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// unavailable wraps a driver error as EUNAVAILABLE.
func unavailable(err error, op string) error {
	return docbridge.WrapError(docbridge.EUNAVAILABLE, err, "sqlite %s failed", op)
}

// queryTerms splits query text into distinct lowercase terms, at most max.
func queryTerms(text string, max int) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
		if len(terms) == max {
			break
		}
	}
	return terms
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
