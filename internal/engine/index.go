package engine

// invertedIndex holds the two mirror posting maps described in spec.md
// §4.3/§9: term -> (doc -> tf) for scoring, and doc -> (term -> tf) for
// O(unique-terms-in-doc) removal and the WordFrequencies accessor. Both
// are load-bearing; neither is a cache of the other.
//
// In Go, a substring produced by slicing a string keeps the original
// backing array alive for as long as any substring referencing it is
// reachable, so the "stable word view" contract of spec.md §9 falls out
// of the language's string semantics — no arena or bump allocator is
// needed the way the C++ original required a std::list<std::string> of
// content buffers.
type invertedIndex struct {
	wordToDocFreqs map[string]map[int]float64
	docToWordFreqs map[int]map[string]float64

	// rawWordToDocs/docToRawWords mirror the tf-idf postings above but
	// cover every token a document was built from, stop words included.
	// A minus-word veto (§4.5, §4.6) must fire even when the vetoed word
	// was filtered out of the scoring index for being a stop word — a
	// query author writing "-in" means "no document mentioning in",
	// not "no document mentioning in, unless in happens to be ignored
	// for ranking purposes". The scoring postings can't answer that
	// question because stop words never enter them, so minus-matching
	// gets its own parallel set of mirror maps.
	rawWordToDocs map[string]map[int]struct{}
	docToRawWords map[int]map[string]struct{}
}

func newInvertedIndex() *invertedIndex {
	return &invertedIndex{
		wordToDocFreqs: make(map[string]map[int]float64),
		docToWordFreqs: make(map[int]map[string]float64),
		rawWordToDocs:  make(map[string]map[int]struct{}),
		docToRawWords:  make(map[int]map[string]struct{}),
	}
}

// addDocument records tf(w, id) for every word in freqs, in both
// directions, plus a presence-only entry in the raw mirrors for every
// word in rawWords (which includes stop words freqs omits). freqs must
// already be the final per-document term frequencies; addDocument
// performs no aggregation of its own.
func (idx *invertedIndex) addDocument(id int, freqs map[string]float64, rawWords []string) {
	if len(freqs) == 0 {
		idx.docToWordFreqs[id] = map[string]float64{}
	} else {
		forward := make(map[string]float64, len(freqs))
		for word, tf := range freqs {
			forward[word] = tf
			posting, ok := idx.wordToDocFreqs[word]
			if !ok {
				posting = make(map[int]float64)
				idx.wordToDocFreqs[word] = posting
			}
			posting[id] = tf
		}
		idx.docToWordFreqs[id] = forward
	}

	rawForward := make(map[string]struct{}, len(rawWords))
	for _, word := range rawWords {
		rawForward[word] = struct{}{}
		posting, ok := idx.rawWordToDocs[word]
		if !ok {
			posting = make(map[int]struct{})
			idx.rawWordToDocs[word] = posting
		}
		posting[id] = struct{}{}
	}
	idx.docToRawWords[id] = rawForward
}

// removeDocument erases every posting referencing id from all four maps.
func (idx *invertedIndex) removeDocument(id int) {
	forward, ok := idx.docToWordFreqs[id]
	if ok {
		for word := range forward {
			posting := idx.wordToDocFreqs[word]
			delete(posting, id)
			if len(posting) == 0 {
				delete(idx.wordToDocFreqs, word)
			}
		}
		delete(idx.docToWordFreqs, id)
	}

	rawForward, ok := idx.docToRawWords[id]
	if !ok {
		return
	}
	for word := range rawForward {
		posting := idx.rawWordToDocs[word]
		delete(posting, id)
		if len(posting) == 0 {
			delete(idx.rawWordToDocs, word)
		}
	}
	delete(idx.docToRawWords, id)
}

// wordFrequencies returns the forward posting for id, or a shared empty
// map when id is unknown. Never fails.
func (idx *invertedIndex) wordFrequencies(id int) map[string]float64 {
	if freqs, ok := idx.docToWordFreqs[id]; ok {
		return freqs
	}
	return emptyWordFreqs
}

// postings returns the inverted posting list for word, or nil if the
// word is absent from the index entirely.
func (idx *invertedIndex) postings(word string) map[int]float64 {
	return idx.wordToDocFreqs[word]
}

// documentFrequency returns df(w): the number of live documents whose
// postings mention w.
func (idx *invertedIndex) documentFrequency(word string) int {
	return len(idx.wordToDocFreqs[word])
}

// docsContainingRaw returns the set of live document ids that contain
// word anywhere in their original tokenisation, stop words included, or
// nil if no live document does.
func (idx *invertedIndex) docsContainingRaw(word string) map[int]struct{} {
	return idx.rawWordToDocs[word]
}

// containsRaw reports whether id's original tokenisation contains word.
func (idx *invertedIndex) containsRaw(id int, word string) bool {
	_, ok := idx.docToRawWords[id][word]
	return ok
}

var emptyWordFreqs = map[string]float64{}
