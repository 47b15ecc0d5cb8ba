package engine

// query is the normalised result of parsing a raw search string: two
// deduplicated, insertion-ordered bags of plus-words and minus-words.
type query struct {
	plusWords  []string
	minusWords []string
}

// parseQuery tokenises raw and classifies each token as a plus-word or a
// minus-word, validating and deduplicating as it goes. A plus-word that
// is a stop word is discarded silently, per spec.md §4.4 — it carries no
// ranking signal, so there's nothing for it to contribute. A minus-word
// is kept even when it is a stop word: "-in" means "exclude documents
// containing in", and that request is meaningful regardless of whether
// "in" was indexed for scoring (see invertedIndex's raw mirrors).
func parseQuery(raw string, stopWords *stopWordSet) (query, error) {
	var q query
	if raw == "" {
		return q, nil
	}

	seenPlus := make(map[string]struct{})
	seenMinus := make(map[string]struct{})

	for _, token := range splitIntoWords(raw) {
		word, isMinus, err := classifyQueryToken(token)
		if err != nil {
			return query{}, err
		}
		if !isValidWord(word) {
			return query{}, ErrInvalidCharacter
		}

		if isMinus {
			if _, seen := seenMinus[word]; seen {
				continue
			}
			seenMinus[word] = struct{}{}
			q.minusWords = append(q.minusWords, word)
		} else {
			if stopWords.contains(word) {
				continue
			}
			if _, seen := seenPlus[word]; seen {
				continue
			}
			seenPlus[word] = struct{}{}
			q.plusWords = append(q.plusWords, word)
		}
	}
	return q, nil
}

// classifyQueryToken strips a leading minus and reports whether the token
// is a minus-word, or fails per spec.md §4.4:
//   - an empty token is an error (empty-query-word),
//   - "--..." is an error (double-minus),
//   - a lone "-" is an error (trailing-minus).
func classifyQueryToken(token string) (word string, isMinus bool, err error) {
	if token == "" {
		return "", false, ErrEmptyQueryWord
	}
	if token[0] != '-' {
		return token, false, nil
	}
	if len(token) == 1 {
		return "", false, ErrTrailingMinus
	}
	if token[1] == '-' {
		return "", false, ErrDoubleMinus
	}
	return token[1:], true, nil
}

// validateQueryCharacters fails with ErrInvalidCharacter if raw contains a
// control character anywhere, independent of tokenisation. Used by Match,
// which validates the whole raw string up front per spec.md §4.6.
func validateQueryCharacters(raw string) error {
	if !isValidWord(raw) {
		return ErrInvalidCharacter
	}
	return nil
}
