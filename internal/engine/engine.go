package engine

import (
	"context"
	"fmt"
)

// Engine is an in-memory full-text index over a bounded corpus of
// documents. It is safe for concurrent queries once ingestion has
// quiesced, but Add/Remove are not safe to call concurrently with
// queries or with each other — callers must synchronise that externally,
// per spec.md §5.
type Engine struct {
	stopWords *stopWordSet
	index     *invertedIndex
	store     *documentStore
}

// New creates an Engine whose stop-word set is built from words. It fails
// with ErrInvalidStopWord if any entry contains a control character.
func New(words []string) (*Engine, error) {
	sw, err := newStopWordSet(words)
	if err != nil {
		return nil, err
	}
	return &Engine{
		stopWords: sw,
		index:     newInvertedIndex(),
		store:     newDocumentStore(),
	}, nil
}

// NewFromString creates an Engine whose stop-word set is parsed from a
// single space-separated string, e.g. "in and with".
func NewFromString(stopWordsText string) (*Engine, error) {
	return New(splitIntoWordsNoEmpty(stopWordsText))
}

// Add ingests a document. It fails with ErrNegativeID, ErrDuplicateID, or
// ErrInvalidWord (see spec.md §4.3) and leaves the engine untouched on
// any failure — validation happens before any posting is written.
func (e *Engine) Add(id int, content string, status Status, ratings []int) error {
	if id < 0 {
		return ErrNegativeID
	}
	if e.store.has(id) {
		return ErrDuplicateID
	}

	words := splitIntoWordsNoStop(content, e.stopWords)
	for _, w := range words {
		if !isValidWord(w) {
			return ErrInvalidWord
		}
	}

	freqs := make(map[string]float64)
	if len(words) > 0 {
		counts := make(map[string]int, len(words))
		for _, w := range words {
			counts[w]++
		}
		total := float64(len(words))
		for w, c := range counts {
			freqs[w] = float64(c) / total
		}
	}

	rating := computeAverageRating(ratings)
	e.store.add(id, content, status, rating)
	e.index.addDocument(id, freqs, splitIntoWordsNoEmpty(content))
	return nil
}

// Remove erases a document and every posting that references it. It is a
// no-op if id is not live.
func (e *Engine) Remove(id int) {
	if !e.store.has(id) {
		return
	}
	e.index.removeDocument(id)
	e.store.remove(id)
}

// RemoveParallel behaves exactly like Remove but erases postings using a
// fan-out over the document's terms.
func (e *Engine) RemoveParallel(id int) {
	if !e.store.has(id) {
		return
	}
	e.index.removeDocumentParallel(id)
	e.store.remove(id)
}

// FindTop scores and ranks documents against raw using predicate, or the
// default status == ACTUAL predicate if predicate is nil.
func (e *Engine) FindTop(raw string, predicate Predicate) ([]Document, error) {
	q, err := parseQuery(raw, e.stopWords)
	if err != nil {
		return nil, err
	}
	if predicate == nil {
		predicate = StatusPredicate(StatusActual)
	}
	docs := e.findAllDocumentsSequential(q, predicate)
	return sortAndTruncate(docs), nil
}

// FindTopParallel is the parallel-evaluator counterpart of FindTop. It
// returns the same id set as FindTop, with relevances equal within
// spec.md's 1e-6 tolerance, but is not guaranteed to be bit-identical
// (floating addition is not associative).
func (e *Engine) FindTopParallel(ctx context.Context, raw string, predicate Predicate) ([]Document, error) {
	q, err := parseQuery(raw, e.stopWords)
	if err != nil {
		return nil, err
	}
	if predicate == nil {
		predicate = StatusPredicate(StatusActual)
	}
	docs, err := e.findAllDocumentsParallel(ctx, q, predicate)
	if err != nil {
		return nil, err
	}
	return sortAndTruncate(docs), nil
}

// Match returns the plus-words of raw that appear in id's content,
// together with id's status. If any minus-word from the query appears
// in the document, the result is an empty word set (even if plus-words
// also matched), per spec.md §4.6.
func (e *Engine) Match(raw string, id int) ([]string, Status, error) {
	data, ok := e.store.get(id)
	if !ok {
		return nil, 0, ErrUnknownID
	}
	if err := validateQueryCharacters(raw); err != nil {
		return nil, 0, err
	}
	q, err := parseQuery(raw, e.stopWords)
	if err != nil {
		return nil, 0, err
	}

	for _, word := range q.minusWords {
		if e.index.containsRaw(id, word) {
			return []string{}, data.status, nil
		}
	}
	forward := e.index.wordFrequencies(id)
	var matched []string
	for _, word := range q.plusWords {
		if _, ok := forward[word]; ok {
			matched = append(matched, word)
		}
	}
	return matched, data.status, nil
}

// MatchParallel is the parallel counterpart of Match; its observable
// contract is identical.
func (e *Engine) MatchParallel(ctx context.Context, raw string, id int) ([]string, Status, error) {
	data, ok := e.store.get(id)
	if !ok {
		return nil, 0, ErrUnknownID
	}
	if err := validateQueryCharacters(raw); err != nil {
		return nil, 0, err
	}
	q, err := parseQuery(raw, e.stopWords)
	if err != nil {
		return nil, 0, err
	}

	minusHit := make(chan bool, len(q.minusWords))
	for _, w := range q.minusWords {
		word := w
		go func() {
			minusHit <- e.index.containsRaw(id, word)
		}()
	}
	hit := false
	for range q.minusWords {
		if <-minusHit {
			hit = true
		}
	}
	if hit {
		return []string{}, data.status, nil
	}

	forward := e.index.wordFrequencies(id)

	type result struct {
		word    string
		matched bool
	}
	results := make(chan result, len(q.plusWords))
	for _, w := range q.plusWords {
		word := w
		go func() {
			_, ok := forward[word]
			results <- result{word: word, matched: ok}
		}()
	}
	var matched []string
	for range q.plusWords {
		r := <-results
		if r.matched {
			matched = append(matched, r.word)
		}
	}
	_ = ctx
	return matched, data.status, nil
}

// WordFrequencies returns id's forward posting, or a shared empty map
// when id is unknown. Never fails.
func (e *Engine) WordFrequencies(id int) map[string]float64 {
	return e.index.wordFrequencies(id)
}

// DocumentCount returns the number of live documents.
func (e *Engine) DocumentCount() int {
	return e.store.count()
}

// StopWordCount returns the number of words in the engine's stop-word
// set.
func (e *Engine) StopWordCount() int {
	return e.stopWords.count()
}

// Size is an alias for DocumentCount, matching spec.md's external
// interface listing.
func (e *Engine) Size() int {
	return e.store.count()
}

// Ids returns live document ids in ascending order.
func (e *Engine) Ids() []int {
	return e.store.ids()
}

// ContentPreview returns a short diagnostic rendering of a document's
// stored content, used by CLI/HTTP collaborators for display only — it
// is not part of the scored-retrieval contract.
func (e *Engine) ContentPreview(id int, maxLen int) (string, error) {
	content, ok := e.store.content[id]
	if !ok {
		return "", ErrUnknownID
	}
	if maxLen > 0 && len(content) > maxLen {
		return fmt.Sprintf("%s...", content[:maxLen]), nil
	}
	return content, nil
}

// splitIntoWordsNoStop tokenises text and discards stop words, mirroring
// the document-ingestion path's tokeniser (distinct from the query
// parser's tokeniser, which treats an empty token as an error rather
// than silently discarding it).
func splitIntoWordsNoStop(text string, stopWords *stopWordSet) []string {
	raw := splitIntoWordsNoEmpty(text)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if !stopWords.contains(w) {
			words = append(words, w)
		}
	}
	return words
}
