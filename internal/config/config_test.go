package config

import (
	"testing"

	"github.com/lehigh-university-libraries/staves/internal/sheet"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STAVES_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS", "STAVES_SPREADSHEET_ID",
		"STAVES_SPREADSHEET_NAME", "STAVES_SHEET", "STAVES_ROWS_FILE", "STAVES_PHOTO_COLUMN",
		"STAVES_COUNT_COLUMN", "STAVES_DATA_DIR", "STAVES_MAPPING_FILE", "STAVES_INCLUDE",
		"STAVES_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MappingFile != DefaultMappingFile {
		t.Errorf("Expected mapping file %s, got %s", DefaultMappingFile, cfg.MappingFile)
	}
	if cfg.Columns != sheet.DefaultColumns() {
		t.Errorf("Expected default columns, got %+v", cfg.Columns)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", cfg.Concurrency)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/fallback.json")
	t.Setenv("STAVES_SPREADSHEET_NAME", "Stave Data")
	t.Setenv("STAVES_PHOTO_COLUMN", "Photo")
	t.Setenv("STAVES_CONCURRENCY", "8")
	t.Setenv("STAVES_DATA_DIR", "/data")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.CredentialsPath != "/fallback.json" {
		t.Errorf("Expected fallback credentials, got %s", cfg.CredentialsPath)
	}
	if cfg.SpreadsheetName != "Stave Data" || cfg.DataDir != "/data" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.Columns.Photo != "Photo" || cfg.Columns.Count != sheet.DefaultCountColumn {
		t.Errorf("Unexpected columns %+v", cfg.Columns)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Expected concurrency 8, got %d", cfg.Concurrency)
	}

	t.Setenv("STAVES_CREDENTIALS", "/primary.json")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CredentialsPath != "/primary.json" {
		t.Errorf("Expected primary credentials, got %s", cfg.CredentialsPath)
	}
}

func TestLoadInvalidConcurrency(t *testing.T) {
	clearEnv(t)
	t.Setenv("STAVES_CONCURRENCY", "many")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for invalid concurrency")
	}
}

func TestValidateExtract(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "spreadsheet with credentials",
			cfg:  Config{SpreadsheetID: "abc", CredentialsPath: "creds.json", Columns: sheet.DefaultColumns(), Concurrency: 1, MappingFile: "m.txt"},
		},
		{
			name: "rows file without credentials",
			cfg:  Config{RowsFile: "rows.csv", Columns: sheet.DefaultColumns(), Concurrency: 1, MappingFile: "m.txt"},
		},
		{
			name:    "no source",
			cfg:     Config{CredentialsPath: "creds.json", Columns: sheet.DefaultColumns(), Concurrency: 1, MappingFile: "m.txt"},
			wantErr: true,
		},
		{
			name:    "spreadsheet without credentials",
			cfg:     Config{SpreadsheetName: "Stave Data", Columns: sheet.DefaultColumns(), Concurrency: 1, MappingFile: "m.txt"},
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			cfg:     Config{RowsFile: "rows.csv", Columns: sheet.DefaultColumns(), MappingFile: "m.txt"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateExtract()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExtract() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRename(t *testing.T) {
	if err := (&Config{DataDir: "/data", MappingFile: "m.txt"}).ValidateRename(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := (&Config{MappingFile: "m.txt"}).ValidateRename(); err == nil {
		t.Error("Expected error without data directory")
	}
}
