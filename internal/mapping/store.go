package mapping

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Delimiter separates the two fields of a mapping line. Neither field may contain it.
const Delimiter = "|"

// ErrNotFound is returned by Load alongside an empty mapping when no mapping
// file exists yet. Callers treat it as "nothing extracted so far".
var ErrNotFound = errors.New("mapping file not found")

// Write serializes m as one "name|count" line per entry.
func Write(w io.Writer, m *Mapping) error {
	bw := bufio.NewWriter(w)
	for _, e := range m.entries {
		if _, err := bw.WriteString(e.CanonicalName + Delimiter + e.Count + "\n"); err != nil {
			return fmt.Errorf("failed to write mapping entry %q: %w", e.CanonicalName, err)
		}
	}
	return bw.Flush()
}

// Read parses the line format produced by Write. Lines that do not split into
// exactly two fields are skipped.
func Read(r io.Reader) (*Mapping, error) {
	m := New()
	scanner := bufio.NewScanner(r)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		fields := strings.Split(line, Delimiter)
		if len(fields) != 2 {
			slog.Debug("Skipping malformed mapping line", "line", lineNum, "fields", len(fields))
			continue
		}
		m.Set(fields[0], fields[1])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading mapping: %w", err)
	}

	return m, nil
}

// Save writes m to path, replacing any previous file. The file is written to a
// temporary name in the same directory first so a failed save leaves the old
// mapping intact.
func Save(path string, m *Mapping) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mapping-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary mapping file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Write(tmp, m); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary mapping file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set mapping file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace mapping file: %w", err)
	}

	slog.Debug("Saved mapping", "path", path, "entries", m.Len())
	return nil
}

// Load reads the mapping stored at path. A missing file yields an empty
// mapping and ErrNotFound.
func Load(path string) (*Mapping, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer file.Close()

	m, err := Read(file)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded mapping", "path", path, "entries", m.Len())
	return m, nil
}
