package engine

import "testing"

func TestAdd_Validation(t *testing.T) {
	e := mustNew(t, "")

	if err := e.Add(-1, "cat", StatusActual, nil); err != ErrNegativeID {
		t.Fatalf("Add(-1, ...) err = %v, want ErrNegativeID", err)
	}

	mustAdd(t, e, 1, "cat dog", StatusActual, nil)
	if err := e.Add(1, "fish", StatusActual, nil); err != ErrDuplicateID {
		t.Fatalf("Add(1, ...) duplicate err = %v, want ErrDuplicateID", err)
	}

	if err := e.Add(2, "cat\x07dog", StatusActual, nil); err != ErrInvalidWord {
		t.Fatalf("Add with control byte err = %v, want ErrInvalidWord", err)
	}
	if e.store.has(2) {
		t.Fatalf("Add(2, ...) should leave the engine untouched on failure")
	}
}

func TestAdd_AverageRating(t *testing.T) {
	e := mustNew(t, "")
	mustAdd(t, e, 1, "cat", StatusActual, nil)
	mustAdd(t, e, 2, "dog", StatusActual, []int{1, 2, 3, 4})

	docs, err := e.FindTop("cat", nil)
	if err != nil {
		t.Fatalf("FindTop: %v", err)
	}
	if len(docs) != 1 || docs[0].Rating != 0 {
		t.Fatalf("empty ratings should average to 0, got %v", docs)
	}

	docs, err = e.FindTop("dog", nil)
	if err != nil {
		t.Fatalf("FindTop: %v", err)
	}
	if len(docs) != 1 || docs[0].Rating != 2 {
		t.Fatalf("ratings [1,2,3,4] should floor-average to 2, got %v", docs)
	}
}

func TestAdd_TermFrequenciesSumToOne(t *testing.T) {
	e := mustNew(t, "and with")
	mustAdd(t, e, 1, "cat and dog with rat and cat", StatusActual, nil)

	freqs := e.WordFrequencies(1)
	var sum float64
	for _, tf := range freqs {
		sum += tf
	}
	if d := sum - 1.0; d > relevanceEpsilon || d < -relevanceEpsilon {
		t.Fatalf("sum(tf) = %v, want 1.0", sum)
	}
	if _, ok := freqs["and"]; ok {
		t.Fatalf("stop word %q leaked into WordFrequencies", "and")
	}
}

func TestRemove_ClearsPostingsAndRawMirrors(t *testing.T) {
	e := mustNew(t, "")
	mustAdd(t, e, 1, "cat dog", StatusActual, nil)
	mustAdd(t, e, 2, "cat fish", StatusActual, nil)

	e.Remove(1)

	if e.DocumentCount() != 1 {
		t.Fatalf("DocumentCount = %d, want 1", e.DocumentCount())
	}
	if len(e.WordFrequencies(1)) != 0 {
		t.Fatalf("WordFrequencies(1) after remove = %v, want empty", e.WordFrequencies(1))
	}
	if e.index.containsRaw(1, "dog") {
		t.Fatalf("raw mirror still references removed document 1")
	}
	if e.index.documentFrequency("dog") != 0 {
		t.Fatalf("documentFrequency(dog) = %d after removing its only document, want 0", e.index.documentFrequency("dog"))
	}

	docs, err := e.FindTop("dog", nil)
	if err != nil {
		t.Fatalf("FindTop: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("FindTop(dog) after removing 1 = %v, want empty", docs)
	}

	// Remove is a no-op for an id that is no longer live.
	e.Remove(1)
	if e.DocumentCount() != 1 {
		t.Fatalf("double Remove changed DocumentCount to %d, want 1", e.DocumentCount())
	}
}

func TestRemoveParallel_AgreesWithRemove(t *testing.T) {
	a := mustNew(t, "")
	b := mustNew(t, "")
	mustAdd(t, a, 1, "cat dog fish", StatusActual, nil)
	mustAdd(t, a, 2, "cat bird", StatusActual, nil)
	mustAdd(t, b, 1, "cat dog fish", StatusActual, nil)
	mustAdd(t, b, 2, "cat bird", StatusActual, nil)

	a.Remove(1)
	b.RemoveParallel(1)

	for _, word := range []string{"cat", "dog", "fish", "bird"} {
		if a.index.documentFrequency(word) != b.index.documentFrequency(word) {
			t.Fatalf("documentFrequency(%q) diverged: sequential=%d parallel=%d", word, a.index.documentFrequency(word), b.index.documentFrequency(word))
		}
	}
}

func TestIds_AscendingAfterMutation(t *testing.T) {
	e := mustNew(t, "")
	mustAdd(t, e, 5, "cat", StatusActual, nil)
	mustAdd(t, e, 1, "dog", StatusActual, nil)
	mustAdd(t, e, 3, "fish", StatusActual, nil)

	sameIDs(t, e.Ids(), []int{1, 3, 5})

	e.Remove(3)
	sameIDs(t, e.Ids(), []int{1, 5})

	mustAdd(t, e, 2, "bird", StatusActual, nil)
	sameIDs(t, e.Ids(), []int{1, 2, 5})
}
