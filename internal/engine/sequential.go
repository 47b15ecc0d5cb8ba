package engine

// findAllDocumentsSequential accumulates tf*idf for every plus-word
// posting that passes predicate, then erases every doc id touched by any
// minus-word, per spec.md §4.5.
func (e *Engine) findAllDocumentsSequential(q query, predicate Predicate) []Document {
	relevance := make(map[int]float64)

	for _, word := range q.plusWords {
		postings := e.index.postings(word)
		if postings == nil {
			continue
		}
		idf := e.computeIDF(word)
		for id, tf := range postings {
			data, ok := e.store.get(id)
			if !ok || !predicate(id, data.status, data.rating) {
				continue
			}
			relevance[id] += tf * idf
		}
	}

	for _, word := range q.minusWords {
		for id := range e.index.docsContainingRaw(word) {
			delete(relevance, id)
		}
	}

	return e.buildDocuments(relevance)
}
