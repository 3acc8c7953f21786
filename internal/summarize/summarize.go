// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize selects the most significant sentences of a document
// using Luhn-style significance scoring: mid-frequency words mark topical
// content, and dense clusters of them make a sentence worth keeping.
package summarize

import (
	"sort"
	"strings"

	"github.com/pdiddy/paper-digest/internal/textproc"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Defaults for the scoring thresholds. Exact values are tunable constants,
// exposed through SummaryConfig.
const (
	DefaultSentences         = 3
	DefaultClusterDistance   = 4
	DefaultMinFrequency      = 2
	DefaultMaxFrequencyRatio = 0.5
)

// Summarizer scores and selects sentences according to its config.
type Summarizer struct {
	cfg types.SummaryConfig
}

// New builds a Summarizer, filling zero config fields with defaults.
func New(cfg types.SummaryConfig) *Summarizer {
	if cfg.Sentences <= 0 {
		cfg.Sentences = DefaultSentences
	}
	if cfg.ClusterDistance <= 0 {
		cfg.ClusterDistance = DefaultClusterDistance
	}
	if cfg.MinFrequency <= 0 {
		cfg.MinFrequency = DefaultMinFrequency
	}
	if cfg.MaxFrequencyRatio <= 0 {
		cfg.MaxFrequencyRatio = DefaultMaxFrequencyRatio
	}
	if cfg.Language == "" {
		cfg.Language = textproc.DefaultLanguage
	}
	return &Summarizer{cfg: cfg}
}

// SummarizeText tokenizes raw text and returns the selected sentences joined
// into a single summary string.
func (s *Summarizer) SummarizeText(text string) string {
	picked := s.Summarize(textproc.Sentences(text, s.cfg.Language), s.cfg.Sentences)
	parts := make([]string, 0, len(picked))
	for _, p := range picked {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, " ")
}

// Summarize returns the n highest-scoring sentences in original document
// order. Ties break toward the earliest sentence. When the document has n or
// fewer sentences they are all returned unscored.
func (s *Summarizer) Summarize(sentences []textproc.Sentence, n int) []textproc.Sentence {
	if n < 1 {
		n = 1
	}
	if len(sentences) <= n {
		return sentences
	}

	significant := s.significantWords(sentences)

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		ranked[i] = scored{index: i, score: s.sentenceScore(sent.Words, significant)}
	}

	// Highest score first, earliest position on ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].index < ranked[j].index
	})

	keep := make(map[int]struct{}, n)
	for _, r := range ranked[:n] {
		keep[r.index] = struct{}{}
	}

	out := make([]textproc.Sentence, 0, n)
	for i, sent := range sentences {
		if _, ok := keep[i]; ok {
			out = append(out, sent)
		}
	}
	return out
}

// significantWords returns stems whose document frequency falls in the
// mid-range band: at least MinFrequency, at most MaxFrequencyRatio of the
// sentence count. Very rare words carry no signal; very common ones are
// noise even after stop-word removal.
func (s *Summarizer) significantWords(sentences []textproc.Sentence) map[string]struct{} {
	freq := make(map[string]int)
	for _, sent := range sentences {
		for _, w := range sent.Words {
			freq[w]++
		}
	}

	maxFreq := s.cfg.MaxFrequencyRatio * float64(len(sentences))
	if maxFreq < float64(s.cfg.MinFrequency) {
		maxFreq = float64(s.cfg.MinFrequency)
	}

	significant := make(map[string]struct{})
	for w, f := range freq {
		if f >= s.cfg.MinFrequency && float64(f) <= maxFreq {
			significant[w] = struct{}{}
		}
	}
	return significant
}

// sentenceScore is the best window score in the sentence: each maximal run
// of words bounded by significant words, where consecutive significant words
// are at most ClusterDistance apart, scores
// (significant words in window)^2 / window length. Fewer than two
// significant words score zero.
func (s *Summarizer) sentenceScore(words []string, significant map[string]struct{}) float64 {
	var positions []int
	for i, w := range words {
		if _, ok := significant[w]; ok {
			positions = append(positions, i)
		}
	}
	if len(positions) < 2 {
		return 0
	}

	best := 0.0
	start := 0 // index into positions of the current window's first word
	count := 1
	for k := 1; k < len(positions); k++ {
		gap := positions[k] - positions[k-1] - 1
		if gap > s.cfg.ClusterDistance {
			best = maxScore(best, windowScore(count, positions[k-1]-positions[start]+1))
			start = k
			count = 1
			continue
		}
		count++
	}
	best = maxScore(best, windowScore(count, positions[len(positions)-1]-positions[start]+1))
	return best
}

func windowScore(significantCount, windowLen int) float64 {
	if windowLen <= 0 {
		return 0
	}
	return float64(significantCount*significantCount) / float64(windowLen)
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
