package engine

import "testing"

func TestParseQuery_StopWordHandling(t *testing.T) {
	sw, err := newStopWordSetFromString("in and with")
	if err != nil {
		t.Fatalf("newStopWordSetFromString: %v", err)
	}

	q, err := parseQuery("cat -in dog", sw)
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}
	if len(q.plusWords) != 2 || q.plusWords[0] != "cat" || q.plusWords[1] != "dog" {
		t.Fatalf("plusWords = %v, want [cat dog]", q.plusWords)
	}
	if len(q.minusWords) != 1 || q.minusWords[0] != "in" {
		t.Fatalf("minusWords = %v, want [in] (a minus-word keeps a stop word)", q.minusWords)
	}
}

func TestParseQuery_DeduplicatesAndPreservesOrder(t *testing.T) {
	q, err := parseQuery("cat dog cat -fish -fish", nil)
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}
	if len(q.plusWords) != 2 || q.plusWords[0] != "cat" || q.plusWords[1] != "dog" {
		t.Fatalf("plusWords = %v, want [cat dog]", q.plusWords)
	}
	if len(q.minusWords) != 1 || q.minusWords[0] != "fish" {
		t.Fatalf("minusWords = %v, want [fish]", q.minusWords)
	}
}

func TestClassifyQueryToken(t *testing.T) {
	cases := []struct {
		token     string
		wantWord  string
		wantMinus bool
		wantErr   error
	}{
		{"cat", "cat", false, nil},
		{"-cat", "cat", true, nil},
		{"-", "", false, ErrTrailingMinus},
		{"--cat", "", false, ErrDoubleMinus},
		{"", "", false, ErrEmptyQueryWord},
	}
	for _, tc := range cases {
		word, isMinus, err := classifyQueryToken(tc.token)
		if err != tc.wantErr {
			t.Errorf("classifyQueryToken(%q) err = %v, want %v", tc.token, err, tc.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if word != tc.wantWord || isMinus != tc.wantMinus {
			t.Errorf("classifyQueryToken(%q) = (%q, %v), want (%q, %v)", tc.token, word, isMinus, tc.wantWord, tc.wantMinus)
		}
	}
}

func TestParseQuery_EmptyRawIsNotAnError(t *testing.T) {
	q, err := parseQuery("", nil)
	if err != nil {
		t.Fatalf("parseQuery(\"\") err = %v, want nil", err)
	}
	if len(q.plusWords) != 0 || len(q.minusWords) != 0 {
		t.Fatalf("parseQuery(\"\") = %+v, want empty query", q)
	}
}
