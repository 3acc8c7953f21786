// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textproc

import "strings"

// englishStopWords is the default stop-word list applied before stemming.
// Stop words never count toward word significance in the summarizer.
var englishStopWords = makeSet(`
a about above after again against all am an and any are aren't as at be
because been before being below between both but by can cannot could couldn't
did didn't do does doesn't doing don't down during each few for from further
had hadn't has hasn't have haven't having he her here hers herself him himself
his how i if in into is isn't it its itself let's me more most mustn't my
myself no nor not of off on once only or other ought our ours ourselves out
over own same shan't she should shouldn't so some such than that the their
theirs them themselves then there these they this those through to too under
until up very was wasn't we were weren't what when where which while who whom
why will with won't would wouldn't you your yours yourself yourselves
also may might must however thus
`)

var stopWordsByLanguage = map[string]map[string]struct{}{
	"english": englishStopWords,
}

// stopWordsFor returns the stop-word set for language, falling back to
// English for unknown locales.
func stopWordsFor(language string) map[string]struct{} {
	if set, ok := stopWordsByLanguage[strings.ToLower(language)]; ok {
		return set
	}
	return englishStopWords
}

func makeSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}
