package paginator

import "testing"

func TestPaginate_EvenSplit(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	pages := Paginate(items, 2)
	if len(pages) != 3 {
		t.Fatalf("len(pages) = %d, want 3", len(pages))
	}
	want := [][]int{{1, 2}, {3, 4}, {5, 6}}
	for i, p := range pages {
		if p.Index != i {
			t.Errorf("pages[%d].Index = %d, want %d", i, p.Index, i)
		}
		if !equal(p.Items, want[i]) {
			t.Errorf("pages[%d].Items = %v, want %v", i, p.Items, want[i])
		}
	}
}

func TestPaginate_RemainderPage(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	pages := Paginate(items, 2)
	if len(pages) != 3 {
		t.Fatalf("len(pages) = %d, want 3", len(pages))
	}
	if !equal(pages[2].Items, []string{"e"}) {
		t.Errorf("last page = %v, want [e]", pages[2].Items)
	}
}

func TestPaginate_EmptyOrInvalid(t *testing.T) {
	if pages := Paginate([]int{1, 2, 3}, 0); pages != nil {
		t.Errorf("Paginate with pageSize 0 = %v, want nil", pages)
	}
	if pages := Paginate([]int(nil), 5); pages != nil {
		t.Errorf("Paginate of empty slice = %v, want nil", pages)
	}
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
