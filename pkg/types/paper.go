// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-digest pipeline.
package types

// PaperReference identifies one paper found in a search listing. References
// are immutable once produced by the listing fetch.
type PaperReference struct {
	// Title is the paper title as shown in the listing.
	Title string `json:"title" yaml:"title"`

	// Link is the absolute URL of the paper's abstract page.
	Link string `json:"link" yaml:"link"`
}

// PaperResult pairs a reference with its extractive summary. When
// summarization of a single paper fails, Summary carries a human-readable
// failure message instead and the job as a whole still completes.
type PaperResult struct {
	Title   string `json:"title" yaml:"title"`
	Link    string `json:"link" yaml:"link"`
	Summary string `json:"summary" yaml:"summary"`
}
