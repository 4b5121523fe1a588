// Package extract turns spreadsheet rows into a canonical-name to count mapping.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/staves/internal/mapping"
	"github.com/lehigh-university-libraries/staves/internal/models"
	"github.com/lehigh-university-libraries/staves/internal/naming"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight resolver calls when Extractor.Concurrency is unset.
const DefaultConcurrency = 4

// ConnectivityError is a resolver failure other than ErrUnresolved. It aborts
// the whole extraction: a partial mapping would look complete.
type ConnectivityError struct {
	Row  int
	Link string
	Err  error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Link, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Extractor resolves rows to canonical names.
type Extractor struct {
	Resolver    Resolver
	Concurrency int
}

// New returns an Extractor using resolver.
func New(resolver Resolver, concurrency int) *Extractor {
	return &Extractor{Resolver: resolver, Concurrency: concurrency}
}

type job struct {
	row   int
	link  Link
	count string
}

// Extract builds the mapping for rows. Rows with a blank identifier or count,
// a link without a file id, or a link no resolver can resolve are skipped.
// When two rows resolve to the same canonical name the later row wins.
func (e *Extractor) Extract(ctx context.Context, rows []models.SourceRecord) (*mapping.Mapping, error) {
	if e.Resolver == nil {
		return nil, errors.New("extractor has no resolver")
	}

	jobs := make([]job, 0, len(rows))
	for i, row := range rows {
		identifier := strings.TrimSpace(row.Identifier)
		count := strings.TrimSpace(row.Count)
		if identifier == "" || count == "" {
			slog.Debug("Skipping incomplete row", "row", i+1)
			continue
		}

		fileID, ok := ParseFileID(identifier)
		if !ok {
			slog.Debug("Skipping row without file id", "row", i+1, "link", identifier)
			continue
		}

		jobs = append(jobs, job{
			row:   i + 1,
			link:  Link{URL: identifier, FileID: fileID},
			count: count,
		})
	}

	limit := e.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	names := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, j := range jobs {
		g.Go(func() error {
			name, err := e.Resolver.Resolve(gctx, j.link)
			if errors.Is(err, ErrUnresolved) {
				slog.Debug("Skipping unresolved row", "row", j.row, "file_id", j.link.FileID, "err", err)
				return nil
			}
			if err != nil {
				return &ConnectivityError{Row: j.row, Link: j.link.URL, Err: err}
			}
			names[i] = name
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := mapping.New()
	for i, j := range jobs {
		if names[i] == "" {
			continue
		}
		canonical := naming.Normalize(names[i])
		if previous, ok := m.Get(canonical); ok && previous != j.count {
			slog.Debug("Later row replaces count", "name", canonical, "previous", previous, "count", j.count, "row", j.row)
		}
		m.Set(canonical, j.count)
	}

	slog.Info("Extracted stave counts", "rows", len(rows), "resolved", m.Len())
	return m, nil
}
