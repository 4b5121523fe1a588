package stavecmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/staves/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// configFlags are the flags that override environment configuration.
type configFlags struct {
	credentials     string
	spreadsheetID   string
	spreadsheetName string
	sheetTitle      string
	rowsFile        string
	photoColumn     string
	countColumn     string
	dataDir         string
	mappingFile     string
	include         string
	concurrency     int
}

func (f *configFlags) addSource(fs *pflag.FlagSet) {
	fs.StringVar(&f.credentials, "credentials", "", "Service account credentials JSON (env STAVES_CREDENTIALS)")
	fs.StringVar(&f.spreadsheetID, "spreadsheet-id", "", "Spreadsheet id (env STAVES_SPREADSHEET_ID)")
	fs.StringVar(&f.spreadsheetName, "spreadsheet", "", "Spreadsheet title, looked up in Drive (env STAVES_SPREADSHEET_NAME)")
	fs.StringVar(&f.sheetTitle, "sheet", "", "Worksheet title, defaults to the first sheet (env STAVES_SHEET)")
	fs.StringVar(&f.rowsFile, "rows", "", "Read rows from a .csv, .jsonl or .parquet export instead of the live sheet (env STAVES_ROWS_FILE)")
	fs.StringVar(&f.photoColumn, "photo-column", "", "Column holding the photo link (env STAVES_PHOTO_COLUMN)")
	fs.StringVar(&f.countColumn, "count-column", "", "Column holding the stave count (env STAVES_COUNT_COLUMN)")
	fs.IntVar(&f.concurrency, "concurrency", 0, "Concurrent Drive lookups (env STAVES_CONCURRENCY)")
}

func (f *configFlags) addTarget(fs *pflag.FlagSet) {
	fs.StringVar(&f.dataDir, "dir", "", "Directory of downloaded photos (env STAVES_DATA_DIR)")
	fs.StringVar(&f.include, "include", "", "Only consider files matching this glob, e.g. '*.{jpg,png}' (env STAVES_INCLUDE)")
}

func (f *configFlags) addMapping(fs *pflag.FlagSet) {
	fs.StringVar(&f.mappingFile, "mapping", "", "Mapping file path (env STAVES_MAPPING_FILE, default "+config.DefaultMappingFile+")")
}

// load reads the environment configuration and applies any flags that were set.
func (f *configFlags) load() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.CredentialsPath, f.credentials)
	override(&cfg.SpreadsheetID, f.spreadsheetID)
	override(&cfg.SpreadsheetName, f.spreadsheetName)
	override(&cfg.SheetTitle, f.sheetTitle)
	override(&cfg.RowsFile, f.rowsFile)
	override(&cfg.Columns.Photo, f.photoColumn)
	override(&cfg.Columns.Count, f.countColumn)
	override(&cfg.DataDir, f.dataDir)
	override(&cfg.MappingFile, f.mappingFile)
	override(&cfg.Include, f.include)
	if f.concurrency != 0 {
		cfg.Concurrency = f.concurrency
	}

	return cfg, nil
}

func addRenameOptions(fs *pflag.FlagSet, opts *renameOptions) {
	fs.StringVar(&opts.reportPath, "report", "", "Write a YAML report of every file's outcome to this path")
	fs.BoolVar(&opts.table, "table", false, "Print a table of outcomes before the summary")
}

// NewExtractCmd creates the extract command
func NewExtractCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Build the photo name to stave count mapping from the spreadsheet",
		Long: `Read the data collection spreadsheet, resolve every photo link to the photo's
name in Google Drive, and store the resulting name|count mapping.

Rows missing a photo link or a count are skipped. When two rows resolve to the same
photo name, the later row wins. Any Drive error other than not-found or
permission denied aborts the extraction and leaves the previous mapping in place.`,
		Example: `  # Extract from the live sheet
  staves extract --credentials ./credentials.json --spreadsheet "Stave Data Collection (Responses)"

  # Extract from a CSV download of the sheet
  staves extract --rows ./responses.csv --credentials ./credentials.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return executeExtract(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags.addSource(cmd.Flags())
	flags.addMapping(cmd.Flags())

	return cmd
}

// NewRenameCmd creates the rename command
func NewRenameCmd() *cobra.Command {
	var flags configFlags
	var opts renameOptions

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename downloaded photos to their stave counts",
		Long: `Rename every photo in the data directory whose name matches an entry of the
stored mapping to <count><ext>. Existing files are never overwritten: when the
name is taken a _1, _2, ... suffix is added before the extension.

Photos without a matching entry are left untouched. Renamed photos no longer
match on a later run.`,
		Example: `  # Rename using the mapping from a previous extract
  staves rename --dir ./photos

  # Only JPEG and PNG files, with a report
  staves rename --dir ./photos --include '*.{jpg,png}' --report rename.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return executeRename(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	flags.addTarget(cmd.Flags())
	flags.addMapping(cmd.Flags())
	addRenameOptions(cmd.Flags(), &opts)

	return cmd
}

// NewRunCmd creates the run command, which extracts and renames in one go
func NewRunCmd() *cobra.Command {
	var flags configFlags
	var opts renameOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract the mapping, store it, then rename the photos",
		Long: `Run extract followed by rename. The mapping is stored before any photo is
renamed, so the rename step can be repeated later with "staves rename".`,
		Example: `  staves run --credentials ./credentials.json --spreadsheet "Stave Data Collection (Responses)" --dir ./photos`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateRename(); err != nil {
				return fmt.Errorf("rename failed: %w", err)
			}
			if err := executeExtract(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
				return err
			}
			return executeRename(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	flags.addSource(cmd.Flags())
	flags.addTarget(cmd.Flags())
	flags.addMapping(cmd.Flags())
	addRenameOptions(cmd.Flags(), &opts)

	return cmd
}
