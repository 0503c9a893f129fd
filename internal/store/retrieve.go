// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/citeindex/pkg/types"
)

// QueryOptions holds parameters for citation queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over record text.
	Query string

	// SourceType filters by record source ("pdf" or "web").
	SourceType types.SourceType

	// SourceID filters by document (filename or URL).
	SourceID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.SourceType == "" && q.SourceID == ""
}

// Retrieve queries the citation store with optional full-text search
// and structured filters. Full-text queries are ranked by relevance;
// structured-only queries come back in (source, page) order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.CitationRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT d.source_type, d.title, r.source_id, r.page, r.text, r.url
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			JOIN documents d ON d.source_id = r.source_id
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT d.source_type, d.title, r.source_id, r.page, r.text, r.url
			FROM records r
			JOIN documents d ON d.source_id = r.source_id
			WHERE 1=1`)
	}

	if opts.SourceType != "" {
		qb.WriteString(` AND d.source_type = ?`)
		args = append(args, string(opts.SourceType))
	}

	if opts.SourceID != "" {
		qb.WriteString(` AND r.source_id = ?`)
		args = append(args, opts.SourceID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.source_id, r.page`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying citation store: %w", err)
	}
	defer rows.Close()

	var results []types.CitationRecord
	for rows.Next() {
		var (
			record     types.CitationRecord
			sourceType string
			page       sql.NullInt64
			url        sql.NullString
		)
		if err := rows.Scan(
			&sourceType, &record.DocumentTitle, &record.SourceID, &page, &record.TextSnippet, &url,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		record.SourceType = types.SourceType(sourceType)
		if page.Valid {
			n := int(page.Int64)
			record.PageNumber = &n
		}
		if url.Valid {
			record.URL = url.String
		}
		results = append(results, record)
	}
	return results, rows.Err()
}
