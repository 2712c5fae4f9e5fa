package triage

import "strings"

// stripCodeFence removes an optional markdown code-fence wrapper from a
// classifier response, so fenced JSON parses identically to bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return s
	}
	inner := parts[1]
	if strings.HasPrefix(inner, "json") {
		inner = inner[len("json"):]
	}
	return strings.TrimSpace(inner)
}
