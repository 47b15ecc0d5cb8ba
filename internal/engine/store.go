package engine

import "sort"

// documentStore owns each live document's raw content and metadata. It is
// append-only: content is never mutated after insertion, and a removed
// id's metadata is dropped entirely rather than tombstoned.
type documentStore struct {
	content   map[int]string
	metadata  map[int]documentData
	liveOrder []int // ascending-sorted live ids, rebuilt lazily
	dirty     bool
}

func newDocumentStore() *documentStore {
	return &documentStore{
		content:  make(map[int]string),
		metadata: make(map[int]documentData),
	}
}

func (s *documentStore) has(id int) bool {
	_, ok := s.metadata[id]
	return ok
}

func (s *documentStore) add(id int, content string, status Status, rating int) {
	s.content[id] = content
	s.metadata[id] = documentData{rating: rating, status: status}
	s.dirty = true
}

func (s *documentStore) remove(id int) {
	delete(s.content, id)
	delete(s.metadata, id)
	s.dirty = true
}

func (s *documentStore) get(id int) (documentData, bool) {
	d, ok := s.metadata[id]
	return d, ok
}

func (s *documentStore) count() int {
	return len(s.metadata)
}

// ids returns live ids in ascending order. The slice is owned by the
// store and must not be mutated by callers.
func (s *documentStore) ids() []int {
	if s.dirty || s.liveOrder == nil {
		s.liveOrder = make([]int, 0, len(s.metadata))
		for id := range s.metadata {
			s.liveOrder = append(s.liveOrder, id)
		}
		sort.Ints(s.liveOrder)
		s.dirty = false
	}
	return s.liveOrder
}

// computeAverageRating returns floor(sum(ratings)/len(ratings)), or 0 for
// an empty rating list (spec.md §4.3, §8 invariant 7).
func computeAverageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
