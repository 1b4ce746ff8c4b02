package csvimport

import "strings"

// Signature identifies a header row for remembering its mapping. Headers are
// trimmed and lowercased, then joined with "|".
func Signature(headers []string) string {
	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return strings.Join(parts, "|")
}
