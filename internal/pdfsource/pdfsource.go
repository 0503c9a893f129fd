// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfsource builds citation records from a folder of PDF files.
// Every page of every readable PDF becomes exactly one record, in
// sorted-filename then ascending-page order, enriched with the title
// and link from the mapping table when the filename matches.
package pdfsource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/citeindex/internal/mapping"
	"github.com/pdiddy/citeindex/pkg/types"
)

// BatchResult holds the outcome of a PDF record-building run.
type BatchResult struct {
	Files       int
	Pages       int
	FailedFiles int
	FailedPages int
}

// Total returns the number of files processed, including failures.
func (r BatchResult) Total() int {
	return r.Files + r.FailedFiles
}

// HasFailures reports whether any file could not be read at all.
func (r BatchResult) HasFailures() bool {
	return r.FailedFiles > 0
}

// ListPDFs returns the names of the *.pdf files directly under dir,
// sorted by name. Sorting keeps record order stable across operating
// systems, whose directory listings are otherwise unordered.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading PDF folder %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// BuildFile extracts one citation record per page of the named PDF.
// The mapping supplies the display title and link when the filename
// matches; otherwise the title falls back to the filename without
// extension and the record carries no link. A page whose extraction
// fails yields a record with an empty snippet and a warning on w.
func BuildFile(e Extractor, dir, name string, m mapping.Mapping, w io.Writer) ([]types.CitationRecord, error) {
	pages, err := e.Extract(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(name, filepath.Ext(name))
	var link string
	if entry, ok := m.Lookup(name); ok {
		if entry.Title != "" {
			title = entry.Title
		}
		link = entry.URL
	} else if len(m) > 0 {
		fmt.Fprintf(w, "  no mapping entry for %s\n", name)
	}

	records := make([]types.CitationRecord, len(pages))
	for i, page := range pages {
		if page.Err != nil {
			fmt.Fprintf(w, "  warning: %s %v\n", name, page.Err)
		}
		num := i + 1
		records[i] = types.CitationRecord{
			SourceType:    types.SourcePDF,
			DocumentTitle: title,
			SourceID:      name,
			PageNumber:    &num,
			TextSnippet:   page.Text,
			URL:           link,
		}
	}
	return records, nil
}

// BuildBatch processes every PDF in dir in sorted order, printing
// per-file status to w and returning the accumulated records and a
// summary. A file that cannot be read is logged and skipped; a missing
// folder is an error and aborts the run.
func BuildBatch(e Extractor, dir string, m mapping.Mapping, w io.Writer) ([]types.CitationRecord, BatchResult, error) {
	names, err := ListPDFs(dir)
	if err != nil {
		return nil, BatchResult{}, err
	}

	var (
		result  BatchResult
		records []types.CitationRecord
	)
	for _, name := range names {
		fmt.Fprintf(w, "processing: %s\n", name)

		fileRecords, err := BuildFile(e, dir, name, m, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.FailedFiles++
			continue
		}

		for _, r := range fileRecords {
			if r.TextSnippet == "" {
				result.FailedPages++
			}
		}
		result.Files++
		result.Pages += len(fileRecords)
		records = append(records, fileRecords...)
	}

	fmt.Fprintf(w, "\nPDF summary: %d file(s), %d page(s), %d unreadable file(s), %d empty page(s)\n",
		result.Files, result.Pages, result.FailedFiles, result.FailedPages)
	return records, result, nil
}
