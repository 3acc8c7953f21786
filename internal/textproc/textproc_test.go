// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textproc

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n\t ", nil},
		{"single without terminator", "graph theory is useful", []string{"graph theory is useful"}},
		{
			"two plain sentences",
			"Graphs model networks. Trees are acyclic graphs.",
			[]string{"Graphs model networks.", "Trees are acyclic graphs."},
		},
		{
			"question and exclamation",
			"Is the graph planar? It is! Euler proved it.",
			[]string{"Is the graph planar?", "It is!", "Euler proved it."},
		},
		{
			"abbreviations do not split",
			"Dr. Smith proved it. See Fig. 2 for details.",
			[]string{"Dr. Smith proved it.", "See Fig. 2 for details."},
		},
		{
			"et al stays attached",
			"Erdos et al. proved the bound. It was tight.",
			[]string{"Erdos et al. proved the bound.", "It was tight."},
		},
		{
			"decimal points are not boundaries",
			"The constant is 3.14 here. Next sentence.",
			[]string{"The constant is 3.14 here.", "Next sentence."},
		},
		{
			"lowercase continuation is not a boundary",
			"We refer to sec. previous work for context.",
			[]string{"We refer to sec. previous work for context."},
		},
		{
			"initials are not boundaries",
			"J. von Neumann wrote it. Few noticed.",
			[]string{"J. von Neumann wrote it.", "Few noticed."},
		},
		{
			"closing quote belongs to the sentence",
			`He said "stop." Then he left.`,
			[]string{`He said "stop."`, "Then he left."},
		},
		{
			"whitespace is normalized",
			"First   sentence\nwraps lines.  Second one.",
			[]string{"First sentence wraps lines.", "Second one."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     []string
	}{
		{"stop words removed and stems applied", "The running of graphs", []string{"run", "graph"}},
		{"plural collapses to singular stem", "networks and network", []string{"network", "network"}},
		{"punctuation stripped", "planar, graphs; (embedded)", []string{"planar", "graph", "embed"}},
		{"contractions in stop list", "Don't panic", []string{"panic"}},
		{"all stop words", "it is what it is", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.sentence, "english")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.sentence, got, tt.want)
			}
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	const s = "Summarization of academic papers requires deterministic stemming."
	first := Tokenize(s, "english")
	for i := 0; i < 5; i++ {
		if got := Tokenize(s, "english"); !reflect.DeepEqual(got, first) {
			t.Fatalf("Tokenize not deterministic: %q vs %q", got, first)
		}
	}
}

func TestTokenizeUnknownLanguageFallsBack(t *testing.T) {
	got := Tokenize("The running of graphs", "klingon")
	if len(got) == 0 {
		t.Fatal("expected tokens for unknown language, got none")
	}
	// English stop words still apply.
	for _, w := range got {
		if w == "the" || w == "of" {
			t.Errorf("stop word %q leaked through fallback", w)
		}
	}
}

func TestSentences(t *testing.T) {
	doc := Sentences("Graphs model networks. Trees are acyclic.", "english")
	if len(doc) != 2 {
		t.Fatalf("len = %d, want 2", len(doc))
	}
	if doc[0].Text != "Graphs model networks." {
		t.Errorf("first sentence = %q", doc[0].Text)
	}
	if len(doc[0].Words) == 0 {
		t.Error("first sentence has no tokens")
	}
}

func TestSentencesEmpty(t *testing.T) {
	if got := Sentences("", "english"); len(got) != 0 {
		t.Errorf("Sentences(\"\") = %v, want empty", got)
	}
}
