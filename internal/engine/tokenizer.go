package engine

import "strings"

// splitIntoWords splits text on single ASCII space separators. Runs of
// spaces and leading/trailing spaces produce empty strings, which the
// caller is expected to discard — this mirrors splitting on a fixed
// single-byte delimiter rather than collapsing whitespace.
func splitIntoWords(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, " ")
}

// isValidWord reports whether word contains no control character (byte
// value in the closed interval [0,31]).
func isValidWord(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] <= 31 {
			return false
		}
	}
	return true
}

// splitIntoWordsNoEmpty splits text on spaces and discards empty tokens,
// the form every higher-level caller in this package actually wants.
func splitIntoWordsNoEmpty(text string) []string {
	raw := splitIntoWords(text)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
