package utils

import "strings"

// ParseQueryList handles both repeated and comma-separated query params.
// Example:
//
//	?status=pending,confirmed         → ["pending","confirmed"]
//	?status=pending&status=confirmed  → ["pending","confirmed"]
//
// Entries are trimmed and blanks are dropped, so "?status=" filters nothing.
func ParseQueryList(q map[string][]string, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
