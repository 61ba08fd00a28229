package chat

import "strings"

const titleWordLimit = 3

// Fallback titles for sessions whose title source was never set. The
// creation path and the read path use distinct strings.
const (
	FallbackTitleNew      = "New Chat"
	FallbackTitleUntitled = "Untitled Chat"
)

// DeriveTitle shortens the first user turn into a display title: at most
// three whitespace-separated words, with "..." appended when more were
// dropped. Empty input yields the empty string; callers substitute their
// own fallback.
func DeriveTitle(source string) string {
	words := strings.Fields(source)
	if len(words) <= titleWordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWordLimit], " ") + "..."
}

func titleOrFallback(source *string, fallback string) string {
	if source == nil {
		return fallback
	}
	if t := DeriveTitle(*source); t != "" {
		return t
	}
	return fallback
}
