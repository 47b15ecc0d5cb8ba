package engine

import "sync"

// removeDocumentParallel mirrors removeDocument but fans the per-term
// posting erasure out across goroutines. Go maps panic on concurrent
// writes regardless of whether the keys differ, so (unlike the C++
// original, which mutates its std::map concurrently without any lock) a
// single mutex guards the actual deletes; the parallelism is in
// collecting and dispatching the term list, not in lock-free writes.
func (idx *invertedIndex) removeDocumentParallel(id int) {
	forward, hasScored := idx.docToWordFreqs[id]
	rawForward, hasRaw := idx.docToRawWords[id]
	if !hasScored && !hasRaw {
		return
	}

	type term struct {
		word string
		raw  bool
	}
	terms := make([]term, 0, len(forward)+len(rawForward))
	for word := range forward {
		terms = append(terms, term{word: word})
	}
	for word := range rawForward {
		terms = append(terms, term{word: word, raw: true})
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, t := range terms {
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			if t.raw {
				posting := idx.rawWordToDocs[t.word]
				delete(posting, id)
				if len(posting) == 0 {
					delete(idx.rawWordToDocs, t.word)
				}
				return
			}
			posting := idx.wordToDocFreqs[t.word]
			delete(posting, id)
			if len(posting) == 0 {
				delete(idx.wordToDocFreqs, t.word)
			}
		}()
	}
	wg.Wait()

	delete(idx.docToWordFreqs, id)
	delete(idx.docToRawWords, id)
}
