// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline executes one digest job: fetch the listing for a topic,
// then concurrently fetch and summarize every paper found. A failed listing
// fails the job; a failed paper only fails its own entry, because partial
// output is still valuable.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pdiddy/paper-digest/internal/summarize"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Lister retrieves the paper listing for a topic.
type Lister interface {
	ListPapers(ctx context.Context, topic string) ([]types.PaperReference, error)
}

// PageFetcher retrieves the visible text of one paper page.
type PageFetcher interface {
	FetchText(ctx context.Context, link string) (string, error)
}

// Defaults for fan-out execution.
const (
	DefaultConcurrency = 4
	DefaultItemTimeout = 20 * time.Second
)

// failurePrefix starts every per-item failure summary.
const failurePrefix = "Could not generate summary"

// Runner drives one job at a time through the fetch-and-summarize pipeline.
type Runner struct {
	lister     Lister
	pages      PageFetcher
	summarizer *summarize.Summarizer
	cfg        types.PipelineConfig
	log        *slog.Logger
}

// NewRunner wires the pipeline stages, applying execution defaults.
func NewRunner(lister Lister, pages PageFetcher, summarizer *summarize.Summarizer, cfg types.PipelineConfig, log *slog.Logger) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = DefaultItemTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{lister: lister, pages: pages, summarizer: summarizer, cfg: cfg, log: log}
}

// Execute runs the job to a terminal state, committing snapshots through
// publish. Output order always matches listing order: results land in a
// pre-sized slice by index, never by completion order.
func (r *Runner) Execute(ctx context.Context, j types.Job, publish func(types.Job)) {
	j.State = types.JobInProgress
	j.Progress = "Starting to scrape..."
	publish(j)

	refs, err := r.lister.ListPapers(ctx, j.Topic)
	if err != nil {
		if ctx.Err() != nil {
			r.publishCancelled(j, publish)
			return
		}
		r.log.Warn("listing fetch failed", "job_id", j.ID, "topic", j.Topic, "error", err)
		j.State = types.JobFailed
		j.Error = err.Error()
		publish(j)
		return
	}

	if len(refs) == 0 {
		j.State = types.JobComplete
		j.Papers = []types.PaperResult{}
		j.Progress = "No papers found."
		publish(j)
		return
	}

	j.Progress = fmt.Sprintf("Found %d papers. Starting summarization...", len(refs))
	publish(j)

	results := make([]types.PaperResult, len(refs))
	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref types.PaperReference) {
			defer wg.Done()

			// Cancellation stops queued items before they fetch.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = failureResult(ref, ctx.Err())
				return
			}
			results[i] = r.processOne(ctx, ref)
		}(i, ref)
	}
	wg.Wait()

	if ctx.Err() != nil {
		r.publishCancelled(j, publish)
		return
	}

	j.Progress = "Summarization complete. Wrapping up..."
	j.State = types.JobComplete
	j.Papers = results
	publish(j)
}

// processOne fetches and summarizes a single paper under the per-item
// timeout. Any failure becomes that entry's failure summary; it never
// aborts the batch.
func (r *Runner) processOne(ctx context.Context, ref types.PaperReference) types.PaperResult {
	itemCtx, cancel := context.WithTimeout(ctx, r.cfg.ItemTimeout)
	defer cancel()

	text, err := r.pages.FetchText(itemCtx, ref.Link)
	if err != nil {
		r.log.Debug("paper fetch failed", "link", ref.Link, "error", err)
		return failureResult(ref, err)
	}

	summary := r.summarizer.SummarizeText(text)
	if summary == "" {
		return failureResult(ref, errors.New("no sentences extracted"))
	}
	return types.PaperResult{Title: ref.Title, Link: ref.Link, Summary: summary}
}

func (r *Runner) publishCancelled(j types.Job, publish func(types.Job)) {
	j.State = types.JobCancelled
	j.Error = "job cancelled"
	j.Progress = "Cancelled."
	publish(j)
}

func failureResult(ref types.PaperReference, err error) types.PaperResult {
	return types.PaperResult{
		Title:   ref.Title,
		Link:    ref.Link,
		Summary: fmt.Sprintf("%s: %v", failurePrefix, err),
	}
}
