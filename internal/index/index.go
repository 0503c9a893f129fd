// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index assembles the final citation sequence and serializes
// it for the downstream consumer.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citeindex/pkg/types"
)

// DefaultOutput is the output filename when none is configured.
const DefaultOutput = "citations.json"

// Assemble concatenates the record groups in order: PDF records first
// (already in sorted-file, ascending-page order), then web records in
// configured URL order. The result is never nil so an empty run still
// serializes as an empty JSON array.
func Assemble(pdfRecords, webRecords []types.CitationRecord) []types.CitationRecord {
	records := make([]types.CitationRecord, 0, len(pdfRecords)+len(webRecords))
	records = append(records, pdfRecords...)
	return append(records, webRecords...)
}

// Write serializes records as an indented JSON array to path,
// replacing any existing file. The write goes through a temp file and
// rename so a failed run never leaves a truncated index behind.
func Write(records []types.CitationRecord, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling citation index: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// WriteYAML serializes records as a YAML list to path for consumers
// that prefer YAML over JSON.
func WriteYAML(records []types.CitationRecord, path string) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling citation index: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".citations-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
