// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// maxPageBytes caps how much of a paper page is read. Abstract pages are
// small; the cap guards against pathological responses.
const maxPageBytes = 4 << 20

// readabilityMinChars is the shortest extraction accepted from readability
// before falling back to structural paragraph extraction. Abstract pages can
// be short, so the bar is low.
const readabilityMinChars = 80

// HTTPPageFetcher retrieves a paper page and extracts its visible text.
type HTTPPageFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPPageFetcher wires an HTTP client; per-item timeouts arrive through
// the request context, not the client.
func NewHTTPPageFetcher(client *http.Client, userAgent string) *HTTPPageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPPageFetcher{client: client, userAgent: userAgent}
}

// FetchText retrieves the page at link and returns its visible text with
// markup, scripts, and styles stripped. Transport failures and non-success
// statuses return a FetchError; content with no extractable text returns a
// ParseError.
func (f *HTTPPageFetcher) FetchText(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: link, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: link, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", &FetchError{URL: link, Timeout: isTimeout(err), Err: err}
	}

	text := ExtractText(string(body))
	if text == "" {
		return "", &ParseError{URL: link}
	}
	return text, nil
}

// ExtractText converts raw page HTML into plain readable text. It removes
// non-content elements, runs readability extraction, and falls back to
// structural paragraph collection, then to a strict tag strip. Plain-text
// payloads pass through with normalized whitespace.
func ExtractText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Short-circuit if the payload is already plain text.
	if !strings.Contains(trimmed, "<") {
		return collapseWhitespace(trimmed)
	}

	// Pre-clean: drop elements that never carry article text.
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed)); err == nil {
		doc.Find("head, script, style, noscript, title, aside, nav, header, footer, iframe, form").Remove()
		if cleaned, err := doc.Html(); err == nil && cleaned != "" {
			trimmed = cleaned
		}
	}

	if article, err := readability.FromReader(strings.NewReader(trimmed), nil); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			if text := strings.TrimSpace(buf.String()); len(text) >= readabilityMinChars {
				return collapseWhitespace(text)
			}
		}
	}

	return extractParagraphs(trimmed)
}

// extractParagraphs collects text from block elements, preserving paragraph
// breaks, and strips all tags as a last resort.
func extractParagraphs(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseWhitespace(bluemonday.StrictPolicy().Sanitize(html))
	}

	var paragraphs []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, blockquote, li").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, collapseWhitespace(text))
		}
	})

	if len(paragraphs) == 0 {
		return collapseWhitespace(bluemonday.StrictPolicy().Sanitize(html))
	}
	return strings.Join(paragraphs, "\n\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
