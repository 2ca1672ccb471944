package llm

import "strings"

// ExtractJSON strips markdown code fences models sometimes wrap around
// JSON output and returns the trimmed payload. Validation of the payload
// itself stays with the caller.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
