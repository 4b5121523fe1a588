package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolved means a resolver could not produce an identifier for a link
// (not found, not authorized, no embedded name). The next resolver in a
// Fallback gets a chance; if none succeeds the row is skipped.
var ErrUnresolved = errors.New("identifier could not be resolved")

// Link is a share-link from a spreadsheet row together with the file id parsed from it.
type Link struct {
	URL    string
	FileID string
}

// Resolver turns a share-link into the display identifier of the photo it points at.
type Resolver interface {
	Resolve(ctx context.Context, link Link) (string, error)
}

// DisplayNameLookup is the file-hosting metadata call. Implementations wrap
// ErrUnresolved for not-found and unauthorized answers.
type DisplayNameLookup interface {
	DisplayName(ctx context.Context, fileID string) (string, error)
}

// DriveResolver resolves a link by asking the file host for the file's display name.
type DriveResolver struct {
	Lookup DisplayNameLookup
}

// Resolve implements Resolver.
func (r DriveResolver) Resolve(ctx context.Context, link Link) (string, error) {
	if r.Lookup == nil {
		return "", fmt.Errorf("%w: no file host configured", ErrUnresolved)
	}
	name, err := r.Lookup.DisplayName(ctx, link.FileID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty display name for %s", ErrUnresolved, link.FileID)
	}
	return name, nil
}

// PatternResolver finds a "<digits> - <name>" segment in the link's path.
// It is best-effort and can match unrelated path components.
type PatternResolver struct{}

// Resolve implements Resolver.
func (PatternResolver) Resolve(_ context.Context, link Link) (string, error) {
	if name, ok := embeddedName(link.URL); ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: no embedded name in link", ErrUnresolved)
}

// Fallback tries each resolver in order, moving on only when one reports ErrUnresolved.
type Fallback []Resolver

// Resolve implements Resolver.
func (f Fallback) Resolve(ctx context.Context, link Link) (string, error) {
	for _, r := range f {
		name, err := r.Resolve(ctx, link)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, ErrUnresolved) {
			return "", err
		}
	}
	return "", ErrUnresolved
}
