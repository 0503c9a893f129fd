// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping loads the filename-to-link table from a CSV export.
// The table associates local PDF filenames with display titles and
// hosted URLs (typically a SharePoint document library export) so that
// citation records can carry clickable links.
package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/citeindex/pkg/types"
)

// Header name variants accepted for each column, compared after
// trimming and lowercasing. SharePoint exports use "Document Name",
// "Title", and "Web Link".
var (
	filenameHeaders = []string{"document name", "filename", "file name", "file"}
	titleHeaders    = []string{"title"}
	urlHeaders      = []string{"web link", "url", "link"}
)

// Mapping associates normalized filenames with mapping entries.
type Mapping map[string]types.MappingEntry

// NormalizeKey canonicalizes a filename for lookup: surrounding
// whitespace removed, lowercased. The extension is kept, matching how
// document names appear in SharePoint exports.
func NormalizeKey(filename string) string {
	return strings.ToLower(strings.TrimSpace(filename))
}

// Lookup returns the entry for filename, normalizing the key first.
func (m Mapping) Lookup(filename string) (types.MappingEntry, bool) {
	e, ok := m[NormalizeKey(filename)]
	return e, ok
}

// Load reads the mapping CSV at path. A missing file is not an error:
// the pipeline proceeds with an empty mapping and records simply carry
// no links. Malformed rows are skipped with a warning on w. Duplicate
// filenames keep the first row seen.
func Load(path string, w io.Writer) (Mapping, error) {
	if path == "" {
		return Mapping{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "mapping: %s not found, continuing without links\n", path)
			return Mapping{}, nil
		}
		return nil, fmt.Errorf("opening mapping CSV %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, w)
}

// Parse reads mapping rows from r. The first row must be a header
// naming the filename, title, and url columns (variants accepted,
// case-insensitive). A UTF-8 BOM on the first cell is stripped.
func Parse(r io.Reader, w io.Writer) (Mapping, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("mapping CSV is empty")
		}
		return nil, fmt.Errorf("reading mapping header: %w", err)
	}

	fileCol, titleCol, urlCol, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	m := Mapping{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(w, "mapping: skipping malformed row %d: %v\n", line, err)
			continue
		}

		if fileCol >= len(row) || strings.TrimSpace(row[fileCol]) == "" {
			fmt.Fprintf(w, "mapping: skipping row %d: no document name\n", line)
			continue
		}

		key := NormalizeKey(row[fileCol])
		if _, exists := m[key]; exists {
			// First match wins on duplicate filenames.
			fmt.Fprintf(w, "mapping: duplicate entry for %q on row %d ignored\n", key, line)
			continue
		}

		m[key] = types.MappingEntry{
			Title: field(row, titleCol),
			URL:   field(row, urlCol),
		}
	}

	return m, nil
}

// locateColumns resolves header cells to column indexes. The filename
// column is required; title and url fall back to -1 when absent so
// rows still load with empty values.
func locateColumns(header []string) (fileCol, titleCol, urlCol int, err error) {
	fileCol, titleCol, urlCol = -1, -1, -1
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(stripBOM(cell)))
		switch {
		case fileCol < 0 && matches(name, filenameHeaders):
			fileCol = i
		case titleCol < 0 && matches(name, titleHeaders):
			titleCol = i
		case urlCol < 0 && matches(name, urlHeaders):
			urlCol = i
		}
	}
	if fileCol < 0 {
		return 0, 0, 0, fmt.Errorf("mapping CSV header %v has no document name column", header)
	}
	return fileCol, titleCol, urlCol, nil
}

func matches(name string, variants []string) bool {
	for _, v := range variants {
		if name == v {
			return true
		}
	}
	return false
}

// stripBOM removes a UTF-8 byte order mark; SharePoint CSV exports
// prefix the first header cell with one.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
