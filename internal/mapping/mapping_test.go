package mapping

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSetLastWriteWins(t *testing.T) {
	m := New()
	m.Set("A", "3")
	m.Set("B", "5")
	m.Set("A", "9")

	if m.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", m.Len())
	}

	count, ok := m.Get("A")
	if !ok || count != "9" {
		t.Errorf("Expected A=9, got %q (found=%v)", count, ok)
	}

	expected := []Entry{{CanonicalName: "A", Count: "9"}, {CanonicalName: "B", Count: "5"}}
	if got := m.Entries(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected entries %v, got %v", expected, got)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	m := New()
	m.Set("A", "3")

	entries := m.Entries()
	entries[0].Count = "changed"

	if count, _ := m.Get("A"); count != "3" {
		t.Errorf("Entries leaked internal state: A=%q", count)
	}
}

func TestWriteFormat(t *testing.T) {
	m := New()
	m.Set("42", "7")
	m.Set("IMG_0001", "120")

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	expected := "42|7\nIMG_0001|120\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, New()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected empty output, got %q", buf.String())
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"42|7",
		"",
		"no delimiter",
		"a|b|c",
		"12 - east yard|88",
		"empty count|",
		"crlf|5\r",
	}, "\n")

	m, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	expected := []Entry{
		{CanonicalName: "42", Count: "7"},
		{CanonicalName: "12 - east yard", Count: "88"},
		{CanonicalName: "empty count", Count: ""},
		{CanonicalName: "crlf", Count: "5"},
	}
	if got := m.Entries(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected entries %v, got %v", expected, got)
	}
}

func TestReadDuplicateLastWins(t *testing.T) {
	m, err := Read(strings.NewReader("A|1\nB|2\nA|3\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if count, _ := m.Get("A"); count != "3" {
		t.Errorf("Expected A=3, got %q", count)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{name: "empty", entries: nil},
		{name: "single", entries: []Entry{{CanonicalName: "42", Count: "7"}}},
		{
			name: "several with spaces",
			entries: []Entry{
				{CanonicalName: "12 - north yard", Count: "140"},
				{CanonicalName: "IMG_0001", Count: "96"},
				{CanonicalName: "weird name", Count: "  3 "},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "counts.txt")

			m := New()
			for _, e := range tt.entries {
				m.Set(e.CanonicalName, e.Count)
			}

			if err := Save(path, m); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if loaded.Len() != m.Len() {
				t.Fatalf("Expected %d entries, got %d", m.Len(), loaded.Len())
			}
			for _, e := range tt.entries {
				count, ok := loaded.Get(e.CanonicalName)
				if !ok || count != e.Count {
					t.Errorf("Entry %q: expected %q, got %q (found=%v)", e.CanonicalName, e.Count, count, ok)
				}
			}
		})
	}
}

func TestSaveEmptyProducesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.txt")
	if err := Save(path, New()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("Expected empty file, got %d bytes", info.Size())
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.txt")

	first := New()
	first.Set("old", "1")
	if err := Save(path, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := New()
	second.Set("new", "2")
	if err := Save(path, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := loaded.Get("old"); ok {
		t.Error("Expected previous mapping to be replaced")
	}
	if count, _ := loaded.Get("new"); count != "2" {
		t.Errorf("Expected new=2, got %q", count)
	}
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if m == nil || m.Len() != 0 {
		t.Errorf("Expected empty mapping, got %v", m)
	}
}
