package dedup

import (
	"testing"

	"github.com/arjun-iyer/corpusengine/internal/engine"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.NewFromString("")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	return e
}

func add(t *testing.T, e *engine.Engine, id int, content string) {
	t.Helper()
	if err := e.Add(id, content, engine.StatusActual, nil); err != nil {
		t.Fatalf("Add(%d): %v", id, err)
	}
}

func TestSweep_RemovesLaterDuplicateByWordSet(t *testing.T) {
	e := newEngine(t)
	add(t, e, 1, "cat dog")
	add(t, e, 2, "cat cat dog dog") // same word set as 1, different tf
	add(t, e, 3, "fish")
	add(t, e, 4, "dog cat")         // same word set as 1 and 2

	removed := Sweep(e)
	if len(removed) != 2 || removed[0] != 2 || removed[1] != 4 {
		t.Fatalf("removed = %v, want [2 4]", removed)
	}

	want := []int{1, 3}
	got := e.Ids()
	if len(got) != len(want) {
		t.Fatalf("Ids() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ids() = %v, want %v", got, want)
		}
	}
}

func TestSweep_NoDuplicatesIsNoOp(t *testing.T) {
	e := newEngine(t)
	add(t, e, 1, "cat")
	add(t, e, 2, "dog")

	if removed := Sweep(e); len(removed) != 0 {
		t.Fatalf("removed = %v, want none", removed)
	}
	if e.DocumentCount() != 2 {
		t.Fatalf("DocumentCount() = %d, want 2", e.DocumentCount())
	}
}
