// Package config collects the settings for an extraction and rename run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/staves/internal/sheet"
)

// DefaultMappingFile is where the extracted mapping is stored when nothing else is configured.
const DefaultMappingFile = "stave_counts.txt"

// Config is passed explicitly to each phase; nothing reads the environment after Load.
type Config struct {
	CredentialsPath string
	SpreadsheetID   string
	SpreadsheetName string
	SheetTitle      string
	RowsFile        string
	Columns         sheet.Columns
	DataDir         string
	MappingFile     string
	Include         string
	Concurrency     int
}

// Load builds a Config from environment variables, falling back to defaults.
func Load() (*Config, error) {
	cfg := &Config{
		CredentialsPath: firstEnv("STAVES_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS"),
		SpreadsheetID:   os.Getenv("STAVES_SPREADSHEET_ID"),
		SpreadsheetName: os.Getenv("STAVES_SPREADSHEET_NAME"),
		SheetTitle:      os.Getenv("STAVES_SHEET"),
		RowsFile:        os.Getenv("STAVES_ROWS_FILE"),
		Columns:         sheet.DefaultColumns(),
		DataDir:         os.Getenv("STAVES_DATA_DIR"),
		MappingFile:     DefaultMappingFile,
		Include:         os.Getenv("STAVES_INCLUDE"),
		Concurrency:     4,
	}

	if v := os.Getenv("STAVES_PHOTO_COLUMN"); v != "" {
		cfg.Columns.Photo = v
	}
	if v := os.Getenv("STAVES_COUNT_COLUMN"); v != "" {
		cfg.Columns.Count = v
	}
	if v := os.Getenv("STAVES_MAPPING_FILE"); v != "" {
		cfg.MappingFile = v
	}
	if v := os.Getenv("STAVES_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STAVES_CONCURRENCY %q: %w", v, err)
		}
		cfg.Concurrency = n
	}

	return cfg, nil
}

// ValidateExtract checks the settings the extraction phase needs.
func (c *Config) ValidateExtract() error {
	var errs []error
	if c.RowsFile == "" && c.SpreadsheetID == "" && c.SpreadsheetName == "" {
		errs = append(errs, errors.New("a spreadsheet id, spreadsheet name or rows file is required"))
	}
	if c.RowsFile == "" && c.CredentialsPath == "" {
		errs = append(errs, errors.New("a credentials file is required to read the spreadsheet"))
	}
	if strings.TrimSpace(c.Columns.Photo) == "" || strings.TrimSpace(c.Columns.Count) == "" {
		errs = append(errs, errors.New("photo and count column titles must not be empty"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.MappingFile == "" {
		errs = append(errs, errors.New("a mapping file path is required"))
	}
	return errors.Join(errs...)
}

// ValidateRename checks the settings the rename phase needs.
func (c *Config) ValidateRename() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("a data directory is required"))
	}
	if c.MappingFile == "" {
		errs = append(errs, errors.New("a mapping file path is required"))
	}
	return errors.Join(errs...)
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
