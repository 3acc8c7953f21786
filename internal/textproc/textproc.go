// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textproc splits raw text into sentences and normalized word tokens.
// It is the leaf stage of the summarization pipeline: sentence boundaries are
// detected with abbreviation-aware punctuation rules, and words are
// lowercased, stripped of stop words, and reduced to Snowball stems.
package textproc

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// DefaultLanguage selects English stop words and stemming.
const DefaultLanguage = "english"

// Sentence is one original sentence paired with its normalized tokens.
// Words may be empty when every token was a stop word.
type Sentence struct {
	Text  string
	Words []string
}

// Sentences tokenizes raw text into sentences with normalized words.
// Empty input yields an empty result, not an error.
func Sentences(text, language string) []Sentence {
	raw := SplitSentences(text)
	out := make([]Sentence, 0, len(raw))
	for _, s := range raw {
		out = append(out, Sentence{Text: s, Words: Tokenize(s, language)})
	}
	return out
}

// trailingClosers are punctuation that may follow a terminator but still
// belongs to the ending sentence.
const trailingClosers = "\"')]’”"

// openers are characters a new sentence may start with besides a capital or digit.
const openers = "\"'(‘“"

// SplitSentences divides text into sentences on ".", "!", and "?" followed
// by whitespace and a capitalized (or quoted, or numeric) continuation.
// Periods after known abbreviations or single initials do not split, and
// mid-token periods (decimals, hostnames) are ignored. Whitespace inside
// each sentence is normalized to single spaces.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		end := i + 1
		for end < len(runes) && strings.ContainsRune(trailingClosers, runes[end]) {
			end++
		}

		// A terminator glued to the next token is not a boundary
		// ("3.14", "arxiv.org").
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue
		}

		if r == '.' && isAbbreviation(runes[start:i]) {
			continue
		}

		j := end
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && !startsSentence(runes[j]) {
			continue
		}

		if s := collapseSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		if s := collapseSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// abbreviations that commonly precede a period mid-sentence in academic prose.
var abbreviations = map[string]struct{}{
	"al": {}, "approx": {}, "cf": {}, "dept": {}, "dr": {}, "e.g": {},
	"eq": {}, "eqs": {}, "etc": {}, "fig": {}, "figs": {}, "i.e": {},
	"mr": {}, "mrs": {}, "ms": {}, "no": {}, "pp": {}, "prof": {},
	"resp": {}, "sec": {}, "univ": {}, "vol": {}, "vs": {},
}

// isAbbreviation reports whether the word ending at a period is a known
// abbreviation or a single initial ("J.").
func isAbbreviation(before []rune) bool {
	k := len(before)
	for k > 0 && (unicode.IsLetter(before[k-1]) || before[k-1] == '.') {
		k--
	}
	word := strings.ToLower(strings.TrimSuffix(string(before[k:]), "."))
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 {
		return true
	}
	_, ok := abbreviations[word]
	return ok
}

func startsSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || strings.ContainsRune(openers, r)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize normalizes one sentence into stemmed tokens: lowercase, strip
// punctuation, drop stop words, Snowball-stem the rest. The same input word
// always yields the same stem. Words the stemmer rejects are kept unstemmed.
func Tokenize(sentence, language string) []string {
	if language == "" {
		language = DefaultLanguage
	}
	stops := stopWordsFor(language)

	lower := strings.ToLower(sentence)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	var words []string
	for _, f := range fields {
		w := strings.Trim(f, "'")
		if w == "" {
			continue
		}
		if _, ok := stops[w]; ok {
			continue
		}
		stem, err := snowball.Stem(w, language, false)
		if err != nil || stem == "" {
			stem = w
		}
		words = append(words, stem)
	}
	return words
}
