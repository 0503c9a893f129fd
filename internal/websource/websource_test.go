// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websource

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/citeindex/pkg/types"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  NHS Transformation
  Directorate </title>
  <style>body { color: red; }</style>
  <script>var tracking = "should not appear";</script>
</head>
<body>
  <nav>Home</nav>
  <h1>Digital health</h1>
  <p>Guidance for
  clinical teams.</p>
  <script>console.log("inline");</script>
  <noscript>Enable JavaScript</noscript>
</body>
</html>`

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestBuildURL(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	})

	record, err := BuildURL(context.Background(), ts.Client(), ts.URL, types.WebConfig{})
	if err != nil {
		t.Fatalf("BuildURL() error = %v", err)
	}

	if record.SourceType != types.SourceWeb {
		t.Errorf("source_type = %q, want web", record.SourceType)
	}
	if record.DocumentTitle != "NHS Transformation Directorate" {
		t.Errorf("title = %q, want normalized <title> text", record.DocumentTitle)
	}
	if record.SourceID != ts.URL || record.URL != ts.URL {
		t.Errorf("source/url = %q/%q, want %q", record.SourceID, record.URL, ts.URL)
	}
	if record.PageNumber != nil {
		t.Errorf("page_number = %v, want nil for web records", record.PageNumber)
	}

	if !strings.Contains(record.TextSnippet, "Guidance for clinical teams.") {
		t.Errorf("snippet missing body text: %q", record.TextSnippet)
	}
	for _, hidden := range []string{"should not appear", "color: red", "console.log", "Enable JavaScript"} {
		if strings.Contains(record.TextSnippet, hidden) {
			t.Errorf("snippet leaked non-visible content %q", hidden)
		}
	}
}

func TestBuildURLTitleFallsBackToURL(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><p>untitled page</p></body></html>"))
	})

	record, err := BuildURL(context.Background(), ts.Client(), ts.URL, types.WebConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if record.DocumentTitle != ts.URL {
		t.Errorf("title = %q, want the URL as fallback", record.DocumentTitle)
	}
}

func TestBuildURLNonSuccessStatus(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	if _, err := BuildURL(context.Background(), ts.Client(), ts.URL, types.WebConfig{}); err == nil {
		t.Error("BuildURL() on 404 should fail")
	}
}

func TestBuildBatchSkipsFailures(t *testing.T) {
	good := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><head><title>Good</title></head><body>ok</body></html>"))
	})
	bad := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	})

	cfg := types.WebConfig{URLs: []string{bad.URL, good.URL}}

	var w bytes.Buffer
	records, result := BuildBatch(context.Background(), cfg, &w)

	if result.Fetched != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 1 fetched, 1 skipped", result)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (404 excluded)", len(records))
	}
	if records[0].DocumentTitle != "Good" {
		t.Errorf("kept record title = %q, want Good", records[0].DocumentTitle)
	}
	if !strings.Contains(w.String(), "skipped: "+bad.URL) {
		t.Errorf("missing skip line, got %q", w.String())
	}
}

func TestBuildBatchEmptyURLList(t *testing.T) {
	var w bytes.Buffer
	records, result := BuildBatch(context.Background(), types.WebConfig{}, &w)
	if len(records) != 0 || result.Total() != 0 {
		t.Errorf("empty URL list should produce nothing, got %d records", len(records))
	}
	if w.Len() != 0 {
		t.Errorf("no output expected for empty batch, got %q", w.String())
	}
}

func TestBuildBatchHonorsConfiguredTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := serve(t, func(http.ResponseWriter, *http.Request) {
		<-release
	})
	// Runs before ts.Close so the stalled handler can return.
	t.Cleanup(func() { close(release) })

	cfg := types.WebConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 50 * time.Millisecond},
		URLs:       []string{ts.URL},
	}

	var w bytes.Buffer
	records, result := BuildBatch(context.Background(), cfg, &w)

	if result.Skipped != 1 || len(records) != 0 {
		t.Errorf("stalled server should be skipped, got result %+v, %d records", result, len(records))
	}
	if !strings.Contains(w.String(), "skipped: "+ts.URL) {
		t.Errorf("missing skip line, got %q", w.String())
	}
}
