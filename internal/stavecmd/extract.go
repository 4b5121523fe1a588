package stavecmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/staves/internal/config"
	"github.com/lehigh-university-libraries/staves/internal/extract"
	"github.com/lehigh-university-libraries/staves/internal/gdrive"
	"github.com/lehigh-university-libraries/staves/internal/mapping"
	"github.com/lehigh-university-libraries/staves/internal/models"
	"github.com/lehigh-university-libraries/staves/internal/sheet"
	"google.golang.org/api/option"
)

// sources are the collaborators the extraction phase reads from.
type sources struct {
	rows     func(ctx context.Context) ([]models.SourceRecord, error)
	resolver extract.Resolver
}

// newSources wires the rows source and resolver chain described by cfg.
// Without credentials only the embedded-name resolver is available.
func newSources(ctx context.Context, cfg *config.Config) (*sources, error) {
	src := &sources{resolver: extract.PatternResolver{}}

	var drive *gdrive.Client
	if cfg.CredentialsPath != "" {
		client, err := gdrive.New(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
		if err != nil {
			return nil, err
		}
		drive = client
		src.resolver = extract.Fallback{extract.DriveResolver{Lookup: drive}, extract.PatternResolver{}}
	} else {
		slog.Warn("No credentials configured, resolving names from links only")
	}

	if cfg.RowsFile != "" {
		loader := sheet.NewLoader(cfg.RowsFile, cfg.Columns)
		src.rows = func(context.Context) ([]models.SourceRecord, error) {
			return loader.Load()
		}
		return src, nil
	}

	if drive == nil {
		return nil, errors.New("reading the spreadsheet requires credentials")
	}
	sheets, err := sheet.New(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, err
	}

	src.rows = func(ctx context.Context) ([]models.SourceRecord, error) {
		spreadsheetID := cfg.SpreadsheetID
		if spreadsheetID == "" {
			id, err := drive.FindSpreadsheet(ctx, cfg.SpreadsheetName)
			if err != nil {
				return nil, err
			}
			spreadsheetID = id
		}
		return sheets.Fetch(ctx, spreadsheetID, cfg.SheetTitle, cfg.Columns)
	}
	return src, nil
}

// extractMapping reads the rows and resolves them. Any failure leaves no mapping.
func extractMapping(ctx context.Context, cfg *config.Config, src *sources) (*mapping.Mapping, error) {
	rows, err := src.rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}

	slog.Info("Loaded spreadsheet rows", "count", len(rows))

	return extract.New(src.resolver, cfg.Concurrency).Extract(ctx, rows)
}

func executeExtract(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := cfg.ValidateExtract(); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	src, err := newSources(ctx, cfg)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	return runExtract(ctx, cfg, src, out)
}

func runExtract(ctx context.Context, cfg *config.Config, src *sources, out io.Writer) error {
	m, err := extractMapping(ctx, cfg, src)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if err := mapping.Save(cfg.MappingFile, m); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	fmt.Fprintf(out, "Extracted %d stave counts to %s\n", m.Len(), cfg.MappingFile)
	return nil
}
