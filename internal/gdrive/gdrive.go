// Package gdrive looks up file metadata in Google Drive.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/staves/internal/extract"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Client wraps the Drive v3 files API.
type Client struct {
	service *drive.Service
}

// New creates a Drive client. Callers pass credentials through opts.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}, opts...)
	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{service: service}, nil
}

// DisplayName returns the name Drive shows for fileID. Not-found and
// permission failures wrap extract.ErrUnresolved so the caller can fall back.
func (c *Client) DisplayName(ctx context.Context, fileID string) (string, error) {
	file, err := c.service.Files.Get(fileID).
		Fields("name").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		if isInaccessible(err) {
			slog.Debug("Drive file not accessible", "file_id", fileID, "err", err)
			return "", fmt.Errorf("%w: drive file %s: %v", extract.ErrUnresolved, fileID, err)
		}
		return "", fmt.Errorf("failed to get drive file %s: %w", fileID, err)
	}
	return file.Name, nil
}

// FindSpreadsheet returns the id of the spreadsheet titled name.
func (c *Client) FindSpreadsheet(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)
	list, err := c.service.Files.List().
		Q(query).
		Fields("files(id, name)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search drive for spreadsheet %q: %w", name, err)
	}

	switch len(list.Files) {
	case 0:
		return "", fmt.Errorf("no spreadsheet named %q is shared with these credentials", name)
	case 1:
		return list.Files[0].Id, nil
	default:
		slog.Warn("Multiple spreadsheets share a name, using the first", "name", name, "count", len(list.Files))
		return list.Files[0].Id, nil
	}
}

func isInaccessible(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
