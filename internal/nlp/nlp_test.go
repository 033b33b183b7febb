package nlp

import (
	"reflect"
	"testing"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single no terminator", "Hello world", []string{"Hello world"}},
		{"basic", "One two. Three four! Five six?", []string{"One two.", "Three four!", "Five six?"}},
		{"abbreviation", "Dr. Smith arrived. He sat down.", []string{"Dr. Smith arrived.", "He sat down."}},
		{"decimal stays", "Revenue grew 3.5 percent. Costs fell.", []string{"Revenue grew 3.5 percent.", "Costs fell."}},
		{"closing quote", `He said "stop." Then left.`, []string{`He said "stop."`, "Then left."}},
		{"initial", "Written by J. Doe in March. Done.", []string{"Written by J. Doe in March.", "Done."}},
		{"ellipsis", "Wait... Go on.", []string{"Wait...", "Go on."}},
	}
	for _, tt := range tests {
		got := Sentences(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Sentences(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestWords(t *testing.T) {
	got := Words("Hello, World! It's 2024 and r2d2 rocks.")
	want := []string{"hello", "world", "it", "s", "and", "r", "d", "rocks"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %q, want %q", got, want)
	}
}

func TestWordsMin(t *testing.T) {
	got := WordsMin("An ox ate the big hay", 3)
	want := []string{"ate", "the", "big", "hay"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordsMin = %q, want %q", got, want)
	}
}

func TestTerms(t *testing.T) {
	got := Terms("A cat_1 sat on 42 mats.")
	want := []string{"cat_1", "sat", "on", "42", "mats"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %q, want %q", got, want)
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("What is the capital of France and the capital of Spain?")
	want := []string{"capital", "france", "spain"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %q, want %q", got, want)
	}
	if len(Keywords("is it the?")) != 0 {
		t.Error("expected no keywords from stop words only")
	}
}

func TestStripAndCollapse(t *testing.T) {
	in := "\n--- Page 1 ---\nFirst   line\n\n--- Page 2 ---\nSecond\tline\n"
	got := CollapseSpace(StripPageMarkers(in))
	if got != "First line Second line" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("Truncate = %q, want %q", got, "hé")
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate = %q, want %q", got, "abc")
	}
	if got := Truncate("abc", 0); got != "" {
		t.Errorf("Truncate = %q, want empty", got)
	}
}

func TestCommonWords(t *testing.T) {
	if !IsCommonWord("work") || !IsCommonWord("the") {
		t.Error("expected work and the to be common")
	}
	if IsCommonWord("hotel") {
		t.Error("hotel should not be common")
	}
}
