package stavecmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/staves/internal/config"
	"github.com/lehigh-university-libraries/staves/internal/mapping"
	"github.com/lehigh-university-libraries/staves/internal/renamer"
	"github.com/lehigh-university-libraries/staves/internal/report"
)

// renameOptions are presentation settings that do not affect what gets renamed.
type renameOptions struct {
	reportPath string
	table      bool
	lockDir    string
}

func executeRename(ctx context.Context, cfg *config.Config, opts renameOptions, out io.Writer) error {
	if err := cfg.ValidateRename(); err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	m, err := mapping.Load(cfg.MappingFile)
	if errors.Is(err, mapping.ErrNotFound) {
		slog.Warn("No stave count mapping found, nothing will match", "path", cfg.MappingFile)
	} else if err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	r := renamer.New(cfg.Include)
	r.LockDir = opts.lockDir
	r.OnOutcome = func(o renamer.Outcome) {
		fmt.Fprintln(out, report.Line(o))
	}

	outcomes, err := r.Rename(ctx, cfg.DataDir, m)
	if err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	if opts.table && len(outcomes) > 0 {
		fmt.Fprintln(out, report.Table(outcomes))
	}

	report.WriteSummary(out, renamer.Summarize(outcomes))

	if opts.reportPath != "" {
		doc := report.NewDocument(report.RunInfo{
			DataDir:     cfg.DataDir,
			MappingFile: cfg.MappingFile,
			Entries:     m.Len(),
		}, outcomes)
		if err := report.SaveYAML(opts.reportPath, doc); err != nil {
			// Exit status only reflects fatal phase errors.
			slog.Error("Unable to write report", "path", opts.reportPath, "err", err)
		} else {
			slog.Info("Wrote rename report", "path", opts.reportPath)
		}
	}

	return nil
}
