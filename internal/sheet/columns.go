// Package sheet reads photo links and stave counts from the response
// spreadsheet, either live through the Sheets API or from an exported file.
package sheet

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/staves/internal/models"
)

// Default column titles of the data collection form.
const (
	DefaultPhotoColumn = "Upload Stave Pallet Photo"
	DefaultCountColumn = "Enter Stave Count"
)

// Columns names the header cells holding the photo link and the count.
type Columns struct {
	Photo string
	Count string
}

// DefaultColumns returns the form's column titles.
func DefaultColumns() Columns {
	return Columns{Photo: DefaultPhotoColumn, Count: DefaultCountColumn}
}

// recordsFromTable turns a header row plus data rows into records. Short rows
// yield blank fields; blank rows are left for the extractor to skip.
func recordsFromTable(header []string, rows [][]string, cols Columns) ([]models.SourceRecord, error) {
	photoIdx, countIdx := -1, -1
	for i, title := range header {
		switch strings.TrimSpace(title) {
		case cols.Photo:
			if photoIdx < 0 {
				photoIdx = i
			}
		case cols.Count:
			if countIdx < 0 {
				countIdx = i
			}
		}
	}
	if photoIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header", cols.Photo)
	}
	if countIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header", cols.Count)
	}

	records := make([]models.SourceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.SourceRecord{
			Identifier: cell(row, photoIdx),
			Count:      cell(row, countIdx),
		})
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
