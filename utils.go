package glean

import "strings"

// SanitizeJSON strips the markdown fences and stray whitespace models
// sometimes wrap around JSON payloads, even under a response-mime-type
// constraint.
func SanitizeJSON(b []byte) []byte {
	s := strings.TrimSpace(string(b))
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}
