// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citeindex/internal/store"
	"github.com/pdiddy/citeindex/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Load a citation index into SQLite and query it",
	Long: `Store ingests a generated citations.json into a SQLite database with a
full-text index over snippet text, supports queries filtered by source
type or document, and exports the store contents to JSON and YAML.`,
	RunE: runStore,
}

func init() {
	storeCmd.Flags().String("index-dir", "", "directory for citations.db and exports (config: store.index_dir)")
	storeCmd.Flags().String("ingest", "", "citation index JSON file to load")
	storeCmd.Flags().String("query", "", "full-text search over snippet text")
	storeCmd.Flags().String("source", "", "filter by source identifier (filename or URL)")
	storeCmd.Flags().String("type", "", "filter by source type: pdf or web")
	storeCmd.Flags().Int("max-results", 0, "maximum number of query results (config: store.max_results)")
	storeCmd.Flags().Bool("json", false, "output query results as JSON")
	storeCmd.Flags().Bool("export", false, "export store contents to JSON and YAML files")

	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("store.max_results")
	}
	cfg := types.StoreConfig{
		IndexDir:   stringSetting(cmd, "index-dir", "store.index_dir", "index"),
		MaxResults: maxResults,
	}

	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()

	ingestPath := flagString(cmd, "ingest")
	if ingestPath != "" {
		if _, err := s.Ingest(ctx, ingestPath, w); err != nil {
			return err
		}
	}

	opts := store.QueryOptions{
		Query:      flagString(cmd, "query"),
		SourceType: types.SourceType(flagString(cmd, "type")),
		SourceID:   flagString(cmd, "source"),
	}

	if doExport, _ := cmd.Flags().GetBool("export"); doExport {
		if err := s.ExportJSON(ctx, opts); err != nil {
			return err
		}
		if err := s.ExportYAML(ctx, opts); err != nil {
			return err
		}
		fmt.Fprintf(w, "exported store to %s/export.json and export.yaml\n", cfg.IndexDir)
		return nil
	}

	// A bare ingest run is done; only query when asked.
	if opts.IsEmpty() && ingestPath != "" {
		return nil
	}

	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling results: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	for _, r := range results {
		loc := r.SourceID
		if r.PageNumber != nil {
			loc = fmt.Sprintf("%s p.%d", r.SourceID, *r.PageNumber)
		}
		fmt.Fprintf(w, "%s [%s]\n    %s\n", loc, r.DocumentTitle, truncate(r.TextSnippet, 160))
	}
	fmt.Fprintf(w, "\n%d result(s)\n", len(results))
	return nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// truncate shortens s to at most max runes, cutting on a rune boundary
// so multibyte snippet text never ends mid-character.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
