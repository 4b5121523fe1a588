package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/staves/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client reads form responses through the Sheets v4 API.
type Client struct {
	service *sheets.Service
}

// New creates a Sheets client. Callers pass credentials through opts.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}, opts...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{service: service}, nil
}

// Fetch returns one record per data row of the worksheet titled sheetTitle,
// or of the first worksheet when sheetTitle is empty.
func (c *Client) Fetch(ctx context.Context, spreadsheetID, sheetTitle string, cols Columns) ([]models.SourceRecord, error) {
	if sheetTitle == "" {
		title, err := c.firstSheet(ctx, spreadsheetID)
		if err != nil {
			return nil, err
		}
		sheetTitle = title
	}

	slog.Debug("Fetching sheet values", "spreadsheet", spreadsheetID, "sheet", sheetTitle)

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, quoteSheetTitle(sheetTitle)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetTitle, err)
	}

	if len(resp.Values) == 0 {
		return nil, nil
	}

	table := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		table[i] = make([]string, len(row))
		for j, v := range row {
			table[i][j] = fmt.Sprint(v)
		}
	}

	records, err := recordsFromTable(table[0], table[1:], cols)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetTitle, err)
	}

	slog.Info("Fetched sheet rows", "sheet", sheetTitle, "rows", len(records))
	return records, nil
}

func (c *Client) firstSheet(ctx context.Context, spreadsheetID string) (string, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to read spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetID)
	}
	return spreadsheet.Sheets[0].Properties.Title, nil
}

// quoteSheetTitle makes a worksheet title usable as an A1 range.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
