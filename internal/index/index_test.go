// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/citeindex/pkg/types"
)

func pdfRecord(source string, page int) types.CitationRecord {
	return types.CitationRecord{
		SourceType:    types.SourcePDF,
		DocumentTitle: strings.TrimSuffix(source, ".pdf"),
		SourceID:      source,
		PageNumber:    &page,
		TextSnippet:   "text",
	}
}

func webRecord(url string) types.CitationRecord {
	return types.CitationRecord{
		SourceType:    types.SourceWeb,
		DocumentTitle: "Page",
		SourceID:      url,
		TextSnippet:   "text",
		URL:           url,
	}
}

func TestAssembleOrder(t *testing.T) {
	records := Assemble(
		[]types.CitationRecord{pdfRecord("a.pdf", 1), pdfRecord("a.pdf", 2)},
		[]types.CitationRecord{webRecord("https://example.com")},
	)

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[2].SourceType != types.SourceWeb {
		t.Errorf("web records must follow PDF records, got %q last", records[2].SourceType)
	}
}

func TestAssembleEmptyIsNotNil(t *testing.T) {
	records := Assemble(nil, nil)
	if records == nil {
		t.Fatal("Assemble(nil, nil) must return an empty slice, not nil")
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("empty index serialized as %s, want []", data)
	}
}

func TestWriteJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citations.json")
	records := Assemble(
		[]types.CitationRecord{pdfRecord("guide.pdf", 1)},
		[]types.CitationRecord{webRecord("https://example.com")},
	)

	if err := Write(records, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// page_number must be an explicit null for web records, and the
	// url key must vanish entirely when no mapping matched.
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("got %d entries, want 2", len(raw))
	}

	if v, ok := raw[0]["page_number"]; !ok || v != float64(1) {
		t.Errorf("pdf page_number = %v, want 1", v)
	}
	if _, ok := raw[0]["url"]; ok {
		t.Error("unmatched pdf record must omit url")
	}

	if v, ok := raw[1]["page_number"]; !ok || v != nil {
		t.Errorf("web page_number = %v, want null", v)
	}
	if raw[1]["url"] != "https://example.com" {
		t.Errorf("web url = %v, want source URL", raw[1]["url"])
	}

	for _, key := range []string{"source_type", "document_title", "source_identifier", "text_snippet"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("output missing key %q", key)
		}
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citations.json")
	if err := os.WriteFile(path, []byte("stale content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Write(Assemble(nil, nil), path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("existing output file was not replaced")
	}
}

func TestWriteDeterministic(t *testing.T) {
	dir := t.TempDir()
	records := Assemble([]types.CitationRecord{pdfRecord("a.pdf", 1)}, nil)

	first := filepath.Join(dir, "one.json")
	second := filepath.Join(dir, "two.json")
	if err := Write(records, first); err != nil {
		t.Fatal(err)
	}
	if err := Write(records, second); err != nil {
		t.Fatal(err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if string(a) != string(b) {
		t.Error("identical input produced different output bytes")
	}
}

func TestWriteUnwritablePath(t *testing.T) {
	if err := Write(nil, filepath.Join(t.TempDir(), "absent", "citations.json")); err == nil {
		t.Error("Write() into a missing directory should fail")
	}
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citations.yaml")
	if err := WriteYAML(Assemble([]types.CitationRecord{pdfRecord("a.pdf", 1)}, nil), path); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "source_identifier: a.pdf") {
		t.Errorf("YAML output missing record fields:\n%s", data)
	}
}
