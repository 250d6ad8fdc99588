// Package identity resolves commit author names to canonical developer
// identities. Automatic grouping compares normalized name forms with a
// similarity threshold; manual mappings, supplied by the user, always win
// over the automatic result for the names they mention.
package identity

import "strings"

// DefaultThreshold is the default similarity threshold for automatic
// author grouping.
const DefaultThreshold = 0.7

// Normalize canonicalizes a raw author name into a comparable key:
// lower-cased with every character outside [a-z0-9] removed. Non-ASCII
// letters are dropped, not transliterated; downstream thresholds are
// calibrated against this exact policy. Keys are never displayed.
func Normalize(name string) string {
	var sb strings.Builder

	sb.Grow(len(name))

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
