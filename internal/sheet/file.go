package sheet

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/staves/internal/models"
	"github.com/parquet-go/parquet-go"
)

// Loader reads records from a spreadsheet export instead of the live sheet.
type Loader struct {
	path    string
	columns Columns
}

// NewLoader creates a loader for the export at path.
func NewLoader(path string, cols Columns) *Loader {
	return &Loader{
		path:    path,
		columns: cols,
	}
}

// Load reads records from a CSV, JSONL or Parquet export.
func (l *Loader) Load() ([]models.SourceRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".csv":
		return l.loadCSV()
	case ".jsonl", ".json":
		return l.loadJSONL()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .csv, .jsonl, .parquet)", ext)
	}
}

// loadCSV reads a CSV download of the sheet; the first record is the header.
func (l *Loader) loadCSV() ([]models.SourceRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv rows: %w", err)
	}

	slog.Debug("Read CSV export", "path", l.path, "rows", len(rows))
	return recordsFromTable(header, rows, l.columns)
}

// loadJSONL reads one JSON object per line, keyed by column title.
func (l *Loader) loadJSONL() ([]models.SourceRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	var records []models.SourceRecord
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var row map[string]any
		if err := json.Unmarshal(line, &row); err != nil {
			// Malformed rows are skipped like any other unusable row
			slog.Warn("Skipping malformed JSON line", "path", l.path, "line", lineNum, "err", err)
			continue
		}

		records = append(records, models.SourceRecord{
			Identifier: jsonField(row, l.columns.Photo),
			Count:      jsonField(row, l.columns.Count),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading export file: %w", err)
	}

	slog.Debug("Read JSONL export", "path", l.path, "rows", len(records))
	return records, nil
}

func jsonField(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// loadParquet reads a Parquet export whose column names are the sheet's column titles.
func (l *Loader) loadParquet() ([]models.SourceRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	photoCol, ok := pf.Schema().Lookup(l.columns.Photo)
	if !ok {
		return nil, fmt.Errorf("column %q not found in parquet schema", l.columns.Photo)
	}
	countCol, ok := pf.Schema().Lookup(l.columns.Count)
	if !ok {
		return nil, fmt.Errorf("column %q not found in parquet schema", l.columns.Count)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	var records []models.SourceRecord
	rows := make([]parquet.Row, 128)

	for _, rowGroup := range pf.RowGroups() {
		reader := rowGroup.Rows()
		for {
			n, err := reader.ReadRows(rows)
			for _, row := range rows[:n] {
				records = append(records, models.SourceRecord{
					Identifier: parquetField(row, photoCol.ColumnIndex),
					Count:      parquetField(row, countCol.ColumnIndex),
				})
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				reader.Close()
				return nil, fmt.Errorf("failed to read parquet rows: %w", err)
			}
		}
		reader.Close()
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))
	return records, nil
}

func parquetField(row parquet.Row, column int) string {
	for _, v := range row {
		if v.Column() != column {
			continue
		}
		if v.IsNull() {
			return ""
		}
		if v.Kind() == parquet.ByteArray {
			return string(v.ByteArray())
		}
		return v.String()
	}
	return ""
}
