// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citeindex/internal/index"
	"github.com/pdiddy/citeindex/internal/mapping"
	"github.com/pdiddy/citeindex/internal/pdfsource"
	"github.com/pdiddy/citeindex/internal/secrets"
	"github.com/pdiddy/citeindex/internal/websource"
	"github.com/pdiddy/citeindex/pkg/types"
)

const defaultUserAgent = "citeindex/0.1"

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Convert PDFs and web pages into citations.json",
	Long: `Build runs the citation pipeline: load the CSV link mapping, extract
one record per PDF page from the configured folder, fetch and extract
each configured web page, then write the combined ordered sequence as a
JSON array.

Unreadable pages, unmatched filenames, and failed URLs are logged and
skipped; only a missing PDF folder or an unwritable output path aborts
the run.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("pdf-dir", "", "folder containing PDF files (config: pdf.dir)")
	buildCmd.Flags().String("csv", "", "filename-to-link mapping CSV (config: mapping.csv)")
	buildCmd.Flags().StringArray("url", nil, "web page to include, repeatable (config: web.urls)")
	buildCmd.Flags().String("urls-file", "", "YAML file with a list of web pages to include")
	buildCmd.Flags().String("out", "", "output path for the JSON index (default citations.json)")
	buildCmd.Flags().String("yaml-out", "", "also write the index as YAML to this path")
	buildCmd.Flags().Duration("timeout", 0, "HTTP request timeout for web pages (default 30s)")

	rootCmd.AddCommand(buildCmd)
}

// stringSetting resolves a flag against its config key: an explicitly
// set flag wins, then the config file, then the fallback.
func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

func runBuild(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	pdfDir := stringSetting(cmd, "pdf-dir", "pdf.dir", "PDFs")
	csvPath := stringSetting(cmd, "csv", "mapping.csv", "")
	outPath := stringSetting(cmd, "out", "output.path", index.DefaultOutput)
	yamlPath := stringSetting(cmd, "yaml-out", "output.yaml_path", "")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("web.timeout")
	}
	userAgent := viper.GetString("web.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	urls, _ := cmd.Flags().GetStringArray("url")
	urls = append(urls, viper.GetStringSlice("web.urls")...)
	if urlsFile, _ := cmd.Flags().GetString("urls-file"); urlsFile != "" {
		fromFile, err := readURLsFile(urlsFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}

	// A broken mapping never aborts the run; records just lose links.
	m, err := mapping.Load(csvPath, w)
	if err != nil {
		fmt.Fprintf(w, "warning: %v (continuing without links)\n", err)
		m = mapping.Mapping{}
	}

	pdfRecords, _, err := pdfsource.BuildBatch(pdfsource.PlainTextExtractor{}, pdfDir, m, w)
	if err != nil {
		return err
	}

	webCfg := types.WebConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		URLs:    urls,
		Headers: secrets.Headers(loadedSecrets),
	}
	webRecords, _ := websource.BuildBatch(cmd.Context(), webCfg, w)

	records := index.Assemble(pdfRecords, webRecords)
	if err := index.Write(records, outPath); err != nil {
		return err
	}
	if yamlPath != "" {
		if err := index.WriteYAML(records, yamlPath); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\nWrote %d citation record(s) to %s\n", len(records), outPath)
	return nil
}

// readURLsFile loads a YAML list of URLs.
func readURLsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading URLs file %s: %w", path, err)
	}
	var urls []string
	if err := yaml.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("parsing URLs file %s: %w", path, err)
	}
	return urls, nil
}
