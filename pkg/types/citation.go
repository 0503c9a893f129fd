// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citeindex pipeline.
package types

// SourceType identifies where a citation record came from.
type SourceType string

const (
	// SourcePDF marks records extracted from a page of a local PDF file.
	SourcePDF SourceType = "pdf"

	// SourceWeb marks records extracted from a fetched web page.
	SourceWeb SourceType = "web"
)

// CitationRecord is one unit of extracted text plus its source metadata:
// a single page of a PDF document, or a whole web page. The downstream
// consumer reads these instead of raw document text, so every field it
// needs for an in-line citation travels with the snippet.
type CitationRecord struct {
	// SourceType is "pdf" or "web".
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// DocumentTitle is the display title: the mapping title when the
	// filename matched a mapping entry, otherwise the filename without
	// extension (PDF) or the page <title> tag (web).
	DocumentTitle string `json:"document_title" yaml:"document_title"`

	// SourceID is the matching key for this record: the PDF's base
	// filename, or the web page URL.
	SourceID string `json:"source_identifier" yaml:"source_identifier"`

	// PageNumber is the 1-indexed page within the PDF. It is nil (JSON
	// null) for web records, which have no page structure.
	PageNumber *int `json:"page_number" yaml:"page_number"`

	// TextSnippet is the whitespace-normalized text extracted for this
	// page or document. Empty when extraction failed for the page.
	TextSnippet string `json:"text_snippet" yaml:"text_snippet"`

	// URL is the clickable link for the record: the mapping link for a
	// matched PDF, or the source URL for a web record. Omitted when no
	// mapping entry matched.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// MappingEntry is a CSV-sourced association between a document filename
// and its display title and link.
type MappingEntry struct {
	// Title is the display title for the document.
	Title string `json:"title" yaml:"title"`

	// URL is the link to the hosted copy of the document.
	URL string `json:"url" yaml:"url"`
}
