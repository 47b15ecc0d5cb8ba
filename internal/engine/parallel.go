package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// materializeWorkers bounds how many goroutines share the work of copying
// the merged relevance map into the final result slice. It is a small,
// fixed fan-out rather than one goroutine per id: the copy itself is
// cheap, so the goroutine-management overhead dominates past a handful
// of workers.
const materializeWorkers = 8

// findAllDocumentsParallel fans plus-words out across a worker-stealing
// goroutine pool (golang.org/x/sync/errgroup), accumulating tf*idf into a
// shardedAccumulator so concurrent updates to different documents never
// contend on a single lock. Minus-word erasure and result materialisation
// follow, per spec.md §4.8.
func (e *Engine) findAllDocumentsParallel(ctx context.Context, q query, predicate Predicate) ([]Document, error) {
	acc := newShardedAccumulator()

	g, _ := errgroup.WithContext(ctx)
	for _, w := range q.plusWords {
		word := w
		g.Go(func() error {
			postings := e.index.postings(word)
			if postings == nil {
				return nil
			}
			idf := e.computeIDF(word)
			for id, tf := range postings {
				data, ok := e.store.get(id)
				if !ok || !predicate(id, data.status, data.rating) {
					continue
				}
				acc.add(id, tf*idf)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := acc.merge()

	// Minus-word erasure is order-independent across words, but each
	// word deletes from the same shared map, so it stays sequential
	// here rather than fanning out onto a structure that would need its
	// own lock for what is typically a handful of words.
	for _, word := range q.minusWords {
		for id := range e.index.docsContainingRaw(word) {
			delete(merged, id)
		}
	}

	return e.materialize(merged), nil
}

// materialize copies a relevance map into a Document slice using
// per-slot writes indexed by an atomic counter, so the resulting order
// (before the caller sorts) is unspecified — mirroring the original's
// std::atomic_int-indexed parallel copy.
func (e *Engine) materialize(relevance map[int]float64) []Document {
	ids := make([]int, 0, len(relevance))
	for id := range relevance {
		ids = append(ids, id)
	}
	docs := make([]Document, len(ids))
	var next atomic.Int64

	workers := materializeWorkers
	if len(ids) < workers {
		workers = len(ids)
	}
	if workers == 0 {
		return docs
	}

	chunk := (len(ids) + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < len(ids); start += chunk {
		end := start + chunk
		if end > len(ids) {
			end = len(ids)
		}
		lo, hi := start, end
		g.Go(func() error {
			for _, id := range ids[lo:hi] {
				data, ok := e.store.get(id)
				rating := 0
				if ok {
					rating = data.rating
				}
				slot := next.Add(1) - 1
				docs[slot] = Document{ID: id, Relevance: relevance[id], Rating: rating}
			}
			return nil
		})
	}
	_ = g.Wait()
	return docs
}
