// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websource builds citation records from fetched web pages.
// Each configured URL yields at most one record: the page <title> and
// the visible body text, with script and style content excluded. Web
// records carry no page number.
package websource

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/citeindex/internal/httputil"
	"github.com/pdiddy/citeindex/internal/textutil"
	"github.com/pdiddy/citeindex/pkg/types"
)

// BatchResult holds the outcome of a web record-building run.
type BatchResult struct {
	Fetched int
	Skipped int
}

// Total returns the number of URLs processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped
}

// BuildURL fetches one page and turns it into a citation record. A
// transport error or non-2xx status is returned as an error; the
// caller skips the URL and keeps going.
func BuildURL(ctx context.Context, client *http.Client, url string, cfg types.WebConfig) (types.CitationRecord, error) {
	resp, err := httputil.Get(ctx, client, url, cfg.UserAgent, cfg.Headers)
	if err != nil {
		return types.CitationRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return types.CitationRecord{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	return parsePage(resp.Body, url)
}

// parsePage extracts the title and visible text from an HTML document.
func parsePage(r io.Reader, url string) (types.CitationRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return types.CitationRecord{}, fmt.Errorf("parsing HTML from %s: %w", url, err)
	}

	title := textutil.NormalizeSpace(doc.Find("title").First().Text())
	if title == "" {
		title = url
	}

	doc.Find("script, style, noscript").Remove()
	text := textutil.NormalizeSpace(doc.Find("body").Text())

	return types.CitationRecord{
		SourceType:    types.SourceWeb,
		DocumentTitle: title,
		SourceID:      url,
		PageNumber:    nil,
		TextSnippet:   text,
		URL:           url,
	}, nil
}

// BuildBatch fetches every configured URL in order, printing per-URL
// status to w. The HTTP client is built from cfg.Timeout. Failures are
// logged and skipped; the batch never aborts on an individual URL.
func BuildBatch(ctx context.Context, cfg types.WebConfig, w io.Writer) ([]types.CitationRecord, BatchResult) {
	client := httputil.NewClient(cfg.Timeout)
	var (
		result  BatchResult
		records []types.CitationRecord
	)
	for _, url := range cfg.URLs {
		fmt.Fprintf(w, "fetching: %s\n", url)

		record, err := BuildURL(ctx, client, url, cfg)
		if err != nil {
			fmt.Fprintf(w, "skipped: %s (%v)\n", url, err)
			result.Skipped++
			continue
		}

		result.Fetched++
		records = append(records, record)
	}

	if result.Total() > 0 {
		fmt.Fprintf(w, "\nWeb summary: %d fetched, %d skipped (total: %d)\n",
			result.Fetched, result.Skipped, result.Total())
	}
	return records, result
}
