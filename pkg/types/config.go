// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citeindex/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MappingConfig holds settings for the CSV mapping loader.
type MappingConfig struct {
	// CSVPath is the path to the filename-to-link mapping CSV. Empty or
	// missing means the pipeline runs with an empty mapping.
	CSVPath string `json:"csv_path" yaml:"csv_path"`
}

// PDFConfig holds settings for the PDF record builder.
type PDFConfig struct {
	// Dir is the folder scanned for *.pdf files.
	Dir string `json:"dir" yaml:"dir"`
}

// WebConfig holds settings for the web record builder.
type WebConfig struct {
	HTTPConfig `yaml:",inline"`

	// URLs lists web pages to fetch and index after the PDF records.
	URLs []string `json:"urls" yaml:"urls"`

	// Headers are extra request headers sent with every fetch, e.g. an
	// Authorization header for mapped pages behind SharePoint auth.
	// Loaded from .secrets/, never serialized.
	Headers map[string]string `json:"-" yaml:"-"`
}

// OutputConfig holds settings for the aggregator/serializer.
type OutputConfig struct {
	// Path is the JSON output file (default "citations.json"). An
	// existing file is overwritten.
	Path string `json:"path" yaml:"path"`

	// YAMLPath, when non-empty, enables a YAML copy of the index.
	YAMLPath string `json:"yaml_path,omitempty" yaml:"yaml_path,omitempty"`
}

// StoreConfig holds settings for the citation store.
type StoreConfig struct {
	// IndexDir is the directory holding citations.db and exports.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Mapping MappingConfig `json:"mapping" yaml:"mapping"`
	PDF     PDFConfig     `json:"pdf" yaml:"pdf"`
	Web     WebConfig     `json:"web" yaml:"web"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
