package intent

import "strings"

// Normalize lower-cases an utterance for matching. Whitespace is left
// untouched: matching works by substring containment, so there is no
// token split to prepare for.
func Normalize(text string) string {
	return strings.ToLower(text)
}
