// Package renamer matches photos in a directory against a stave count mapping
// and renames each matched photo to "<count><ext>" without ever overwriting a file.
package renamer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"
	"github.com/lehigh-university-libraries/staves/internal/mapping"
	"github.com/lehigh-university-libraries/staves/internal/models"
	"github.com/lehigh-university-libraries/staves/internal/naming"
)

// ErrLocked means another rename run holds the directory.
var ErrLocked = errors.New("directory is being renamed by another run")

var errNotDirectory = errors.New("not a directory")

// DirectoryError is returned when the target directory cannot be used.
// No file has been touched when it is returned.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// Renamer renames matched files in a directory.
type Renamer struct {
	// Include is a glob matched against file names; empty means every file.
	Include string
	// LockDir holds the per-directory lock files; empty means os.TempDir().
	LockDir string
	// OnOutcome, if set, is called as each file is finished.
	OnOutcome func(Outcome)
}

// New returns a Renamer limited to files matching include.
func New(include string) *Renamer {
	return &Renamer{Include: include}
}

// Rename matches every regular file in dir against m and renames the matches.
// Files are visited in directory listing order. A file matches the first
// mapping entry, in mapping order, whose normalized canonical name equals the
// file's normalized base name. Per-file failures become Error outcomes; only
// directory problems are returned as an error, before any file is touched.
func (r *Renamer) Rename(ctx context.Context, dir string, m *mapping.Mapping) ([]Outcome, error) {
	if r.Include != "" && !doublestar.ValidatePattern(r.Include) {
		return nil, fmt.Errorf("invalid include pattern %q", r.Include)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryError{Dir: dir, Err: errNotDirectory}
	}

	lock, err := r.lock(dir)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release directory lock", "path", lock.Path(), "err", err)
		}
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}

	index := buildIndex(m)
	// Every probe that fails hits a distinct existing name, so one more than
	// the directory size is always enough.
	maxProbes := len(entries) + 1

	slog.Debug("Renaming directory", "dir", dir, "entries", len(entries), "mapping_entries", m.Len())

	var outcomes []Outcome
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		path := filepath.Join(dir, entry.Name())
		if !isRegularFile(entry, path) {
			continue
		}
		if !r.includes(entry.Name()) {
			continue
		}

		outcome := renameFile(dir, path, entry.Name(), index, maxProbes)
		if r.OnOutcome != nil {
			r.OnOutcome(outcome)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (r *Renamer) includes(name string) bool {
	if r.Include == "" {
		return true
	}
	matched, err := doublestar.Match(r.Include, name)
	return err == nil && matched
}

func (r *Renamer) lock(dir string) (*flock.Flock, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	lockDir := r.LockDir
	if lockDir == "" {
		lockDir = os.TempDir()
	}

	sum := sha256.Sum256([]byte(abs))
	lock := flock.New(filepath.Join(lockDir, "staves-"+hex.EncodeToString(sum[:8])+".lock"))

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}

// buildIndex keys the mapping by normalized canonical name. The first entry
// for a key is kept, so ambiguous names resolve to the earliest entry.
func buildIndex(m *mapping.Mapping) map[string]mapping.Entry {
	index := make(map[string]mapping.Entry, m.Len())
	for _, e := range m.Entries() {
		key := naming.Normalize(e.CanonicalName)
		if _, exists := index[key]; exists {
			continue
		}
		index[key] = e
	}
	return index
}

func isRegularFile(entry fs.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func renameFile(dir, path, name string, index map[string]mapping.Entry, maxProbes int) Outcome {
	base, ext := naming.SplitExt(name)
	outcome := Outcome{
		File:      models.LocalFile{Path: path, BaseName: base, Extension: ext},
		FinalName: name,
	}

	entry, ok := index[naming.Normalize(base)]
	if !ok {
		outcome.Status = NoMatch
		slog.Debug("No mapping entry for file", "file", name)
		return outcome
	}
	outcome.Entry = &entry

	if !validCount(entry.Count) {
		outcome.Status = Error
		outcome.Err = fmt.Errorf("count %q cannot be used as a file name", entry.Count)
		return outcome
	}

	finalName, probes, err := place(dir, path, entry.Count, ext, maxProbes)
	if err != nil {
		outcome.Status = Error
		outcome.Err = err
		slog.Debug("Rename failed", "file", name, "count", entry.Count, "err", err)
		return outcome
	}

	outcome.FinalName = finalName
	outcome.Status = Renamed
	if probes > 0 {
		outcome.Status = CollisionResolved
	}
	slog.Debug("Renamed file", "file", name, "final", finalName, "probes", probes)
	return outcome
}

func validCount(count string) bool {
	return count != "" && count != "." && count != ".." && !strings.ContainsAny(count, `/\`)
}

// candidateName returns "<count><ext>" for n == 0 and "<count>_<n><ext>" otherwise.
func candidateName(count, ext string, n int) string {
	if n == 0 {
		return count + ext
	}
	return fmt.Sprintf("%s_%d%s", count, n, ext)
}

// place moves src to the first free candidate name, returning the name used and
// how many taken names were skipped.
func place(dir, src, count, ext string, maxProbes int) (string, int, error) {
	for n := 0; n < maxProbes; n++ {
		name := candidateName(count, ext, n)
		err := moveExclusive(src, filepath.Join(dir, name))
		if err == nil {
			return name, n, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", n, err
		}
	}
	return "", maxProbes, fmt.Errorf("no free name for count %s after %d attempts", count, maxProbes)
}

// moveExclusive renames src to dst, failing with fs.ErrExist if dst exists.
// A hard link claims dst atomically; filesystems without hard links fall back
// to an existence check followed by a rename.
func moveExclusive(src, dst string) error {
	linkErr := os.Link(src, dst)
	if linkErr == nil {
		if err := os.Remove(src); err != nil {
			if rmErr := os.Remove(dst); rmErr != nil {
				slog.Warn("Failed to roll back link", "path", dst, "err", rmErr)
			}
			return fmt.Errorf("failed to remove original after linking: %w", err)
		}
		return nil
	}
	if errors.Is(linkErr, fs.ErrExist) {
		return linkErr
	}

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}
