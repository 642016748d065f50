package discord

import "unicode/utf8"

// MaxMessageLen is the Discord limit on message content, in characters.
const MaxMessageLen = 2000

// Truncate shortens content to Discord's message limit, marking the cut with
// an ellipsis.
func Truncate(content string) string {
	if utf8.RuneCountInString(content) <= MaxMessageLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:MaxMessageLen-1]) + "…"
}
