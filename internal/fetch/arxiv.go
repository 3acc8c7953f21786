// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves paper listings and paper page text from the
// configured search site.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// DefaultBaseURL is the search site root used when none is configured.
const DefaultBaseURL = "https://arxiv.org"

const defaultUserAgent = "paper-digest/0.1"

// ArxivLister queries the arXiv search page and parses the result listing.
type ArxivLister struct {
	client *http.Client
	cfg    types.SearchConfig
}

// NewArxivLister wires an HTTP client and search config, applying defaults
// for base URL and user agent.
func NewArxivLister(client *http.Client, cfg types.SearchConfig) *ArxivLister {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &ArxivLister{client: client, cfg: cfg}
}

// ListPapers issues one search against the site and returns the ordered
// paper references found in the listing. Entries missing a title or an
// abstract link are skipped; that is a filtering policy, not a failure.
// Transport errors and non-success statuses return a FetchError. The lister
// does not retry beyond rate-limit backoff; retry policy belongs to the
// caller.
func (l *ArxivLister) ListPapers(ctx context.Context, topic string) ([]types.PaperReference, error) {
	searchURL := fmt.Sprintf("%s/search/?query=%s&searchtype=all",
		strings.TrimSuffix(l.cfg.BaseURL, "/"), url.QueryEscape(topic))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building listing request: %w", err)
	}
	req.Header.Set("User-Agent", l.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, l.client, req, 0)
	if err != nil {
		return nil, &FetchError{URL: searchURL, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: searchURL, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{URL: searchURL, Err: err}
	}

	var refs []types.PaperReference
	doc.Find("li.arxiv-result").Each(func(_ int, entry *goquery.Selection) {
		title := strings.TrimSpace(entry.Find("p.title").First().Text())
		link, ok := entry.Find(`a[title="Abstract"]`).First().Attr("href")
		link = strings.TrimSpace(link)
		if title == "" || !ok || link == "" {
			return
		}
		refs = append(refs, types.PaperReference{Title: title, Link: l.absolute(link)})
	})

	if l.cfg.MaxResults > 0 && len(refs) > l.cfg.MaxResults {
		refs = refs[:l.cfg.MaxResults]
	}
	return refs, nil
}

// absolute resolves listing-relative links against the configured base.
func (l *ArxivLister) absolute(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimSuffix(l.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(link, "/")
}
