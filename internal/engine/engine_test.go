package engine

import (
	"context"
	"math"
	"testing"
)

func mustNew(t *testing.T, stopWords string) *Engine {
	t.Helper()
	e, err := NewFromString(stopWords)
	if err != nil {
		t.Fatalf("NewFromString(%q): %v", stopWords, err)
	}
	return e
}

func ids(docs []Document) []int {
	out := make([]int, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func sameIDs(t *testing.T, got []int, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("id count = %d, want %d (got %v, want %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

// S1 — basic ranking.
func TestFindTop_BasicRanking(t *testing.T) {
	e := mustNew(t, "in and with")
	mustAdd(t, e, 42, "cat in the city", StatusActual, []int{1})
	mustAdd(t, e, 43, "cat and dog in the small village", StatusActual, []int{2})
	mustAdd(t, e, 44, "cat and dog with rat under the table", StatusActual, []int{3})

	docs, err := e.FindTop("cat", nil)
	if err != nil {
		t.Fatalf("FindTop(cat): %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("FindTop(cat) len = %d, want 3 (docs=%v)", len(docs), docs)
	}

	docs, err = e.FindTop("dog", nil)
	if err != nil {
		t.Fatalf("FindTop(dog): %v", err)
	}
	sameIDs(t, ids(docs), []int{43, 44})

	docs, err = e.FindTop("rat", nil)
	if err != nil {
		t.Fatalf("FindTop(rat): %v", err)
	}
	sameIDs(t, ids(docs), []int{44})

	docs, err = e.FindTop("snake", nil)
	if err != nil {
		t.Fatalf("FindTop(snake): %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("FindTop(snake) = %v, want empty", docs)
	}
}

// S2 — minus veto, including a minus-word that is itself a stop word.
func TestFindTop_MinusVeto(t *testing.T) {
	e := mustNew(t, "in and with")
	mustAdd(t, e, 4, "cat in the city", StatusActual, nil)
	mustAdd(t, e, 5, "cat in the city out", StatusActual, nil)

	docs, err := e.FindTop("cat in", nil)
	if err != nil {
		t.Fatalf("FindTop(cat in): %v", err)
	}
	sameIDs(t, ids(docs), []int{4, 5})

	docs, err = e.FindTop("cat -out", nil)
	if err != nil {
		t.Fatalf("FindTop(cat -out): %v", err)
	}
	sameIDs(t, ids(docs), []int{4})

	// "in" is a stop word, so it never entered the scoring index, but
	// the minus veto still has to see it: both documents contain "in"
	// in their original text, so both are excluded.
	docs, err = e.FindTop("cat -in", nil)
	if err != nil {
		t.Fatalf("FindTop(cat -in): %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("FindTop(cat -in) = %v, want empty", docs)
	}
}

// S3 — tf-idf arithmetic, checked to within relevanceEpsilon.
func TestFindTop_TFIDFMath(t *testing.T) {
	e := mustNew(t, "")
	mustAdd(t, e, 1, "white cat and fashionable collar", StatusActual, []int{8})
	mustAdd(t, e, 2, "fluffy cat fluffy tail", StatusActual, []int{7})
	mustAdd(t, e, 3, "groomed dog expressive eyes", StatusActual, []int{5})

	docs, err := e.FindTop("fluffy groomed cat", nil)
	if err != nil {
		t.Fatalf("FindTop: %v", err)
	}
	sameIDs(t, ids(docs), []int{2, 3, 1})

	want := map[int]float64{
		1: (1.0 / 5.0) * math.Log(3.0/2.0),
		2: (2.0/4.0)*math.Log(3.0/1.0) + (1.0/4.0)*math.Log(3.0/2.0),
		3: (1.0 / 4.0) * math.Log(3.0/1.0),
	}
	for _, d := range docs {
		if math.Abs(d.Relevance-want[d.ID]) > relevanceEpsilon {
			t.Errorf("doc %d relevance = %v, want %v", d.ID, d.Relevance, want[d.ID])
		}
	}
}

// S4 — query parsing errors.
func TestFindTop_QueryErrors(t *testing.T) {
	e := mustNew(t, "")
	mustAdd(t, e, 1, "cat dog", StatusActual, nil)

	cases := []struct {
		name  string
		query string
		want  error
	}{
		{"double minus", "cat --dog", ErrDoubleMinus},
		{"trailing minus", "cat -", ErrTrailingMinus},
		{"empty token from double space", "cat  dog", ErrEmptyQueryWord},
		{"control character", "cat\x01dog", ErrInvalidCharacter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.FindTop(tc.query, nil); err != tc.want {
				t.Fatalf("FindTop(%q) err = %v, want %v", tc.query, err, tc.want)
			}
		})
	}

	if _, err := e.FindTop("", nil); err != nil {
		t.Fatalf("FindTop(\"\") err = %v, want nil", err)
	}
}

// S5 — Match semantics, including the minus-veto-wins-over-plus-matches
// rule and a plus word that is a stop word.
func TestMatch(t *testing.T) {
	e := mustNew(t, "in and with")
	mustAdd(t, e, 4, "cat in the city", StatusActual, nil)

	matched, status, err := e.Match("cat in the out", 4)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if status != StatusActual {
		t.Fatalf("status = %v, want ACTUAL", status)
	}
	wantSet := map[string]bool{"cat": true, "the": true}
	if len(matched) != len(wantSet) {
		t.Fatalf("matched = %v, want set %v", matched, wantSet)
	}
	for _, w := range matched {
		if !wantSet[w] {
			t.Fatalf("unexpected match %q in %v", w, matched)
		}
	}

	matched, status, err = e.Match("cat in the -city out", 4)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(matched) != 0 {
		t.Fatalf("matched = %v, want empty (minus veto)", matched)
	}
	if status != StatusActual {
		t.Fatalf("status = %v, want ACTUAL", status)
	}

	if _, _, err := e.Match("cat", 999); err != ErrUnknownID {
		t.Fatalf("Match on unknown id err = %v, want ErrUnknownID", err)
	}
}

// S6 — sequential/parallel evaluator agreement over a larger synthetic
// corpus: same id set, relevances equal within relevanceEpsilon.
func TestFindTopParallel_AgreesWithSequential(t *testing.T) {
	e := mustNew(t, "a the of")
	words := []string{"cat", "dog", "fish", "bird", "snake", "mouse", "fox", "bear"}
	for i := 0; i < 1000; i++ {
		content := words[i%len(words)] + " the of a " + words[(i+1)%len(words)] + " " + words[(i+3)%len(words)]
		mustAdd(t, e, i, content, StatusActual, []int{i % 5})
	}

	seq, err := e.FindTop("cat dog -bear", nil)
	if err != nil {
		t.Fatalf("FindTop: %v", err)
	}
	par, err := e.FindTopParallel(context.Background(), "cat dog -bear", nil)
	if err != nil {
		t.Fatalf("FindTopParallel: %v", err)
	}
	sameIDs(t, ids(par), ids(seq))
	for i := range seq {
		if math.Abs(seq[i].Relevance-par[i].Relevance) > relevanceEpsilon {
			t.Errorf("doc %d relevance seq=%v par=%v, want within %v", seq[i].ID, seq[i].Relevance, par[i].Relevance, relevanceEpsilon)
		}
	}
}

func mustAdd(t *testing.T, e *Engine, id int, content string, status Status, ratings []int) {
	t.Helper()
	if err := e.Add(id, content, status, ratings); err != nil {
		t.Fatalf("Add(%d, %q): %v", id, content, err)
	}
}
