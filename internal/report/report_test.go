package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/staves/internal/mapping"
	"github.com/lehigh-university-libraries/staves/internal/models"
	"github.com/lehigh-university-libraries/staves/internal/renamer"
	"gopkg.in/yaml.v3"
)

func sampleOutcomes() []renamer.Outcome {
	return []renamer.Outcome{
		{
			File:      models.LocalFile{BaseName: "42", Extension: ".jpg"},
			Entry:     &mapping.Entry{CanonicalName: "42", Count: "7"},
			FinalName: "7.jpg",
			Status:    renamer.Renamed,
		},
		{
			File:      models.LocalFile{BaseName: "B", Extension: ".png"},
			Entry:     &mapping.Entry{CanonicalName: "B", Count: "3"},
			FinalName: "3_1.png",
			Status:    renamer.CollisionResolved,
		},
		{
			File:      models.LocalFile{BaseName: "99", Extension: ".jpg"},
			FinalName: "99.jpg",
			Status:    renamer.NoMatch,
		},
		{
			File:      models.LocalFile{BaseName: "43", Extension: ".jpg"},
			Entry:     &mapping.Entry{CanonicalName: "43", Count: "5"},
			FinalName: "43.jpg",
			Status:    renamer.Error,
			Err:       errors.New("permission denied"),
		},
	}
}

func TestLine(t *testing.T) {
	expected := []string{
		"Renamed: 42.jpg -> 7.jpg",
		"Renamed: B.png -> 3_1.png (target taken)",
		"No match: 99.jpg",
		"Failed: 43.jpg: permission denied",
	}

	for i, o := range sampleOutcomes() {
		if got := Line(o); got != expected[i] {
			t.Errorf("Expected %q, got %q", expected[i], got)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, renamer.Summarize(sampleOutcomes()))

	expected := "Renamed: 2 files, 1 files not matched\nFailed: 1 files\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}

	buf.Reset()
	WriteSummary(&buf, renamer.Summary{Renamed: 1, NotMatched: 1})
	if buf.String() != "Renamed: 1 files, 1 files not matched\n" {
		t.Errorf("Unexpected summary %q", buf.String())
	}
}

func TestTable(t *testing.T) {
	out := Table(sampleOutcomes())
	for _, want := range []string{"File", "Final Name", "42.jpg", "3_1.png", "no_match", "collision_resolved"} {
		if !strings.Contains(out, want) {
			t.Errorf("Table output missing %q:\n%s", want, out)
		}
	}
}

func TestSaveYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	doc := NewDocument(RunInfo{DataDir: "/data", MappingFile: "counts.txt", Entries: 3, Timestamp: "2025-01-02T00:00:00Z"}, sampleOutcomes())

	if err := SaveYAML(path, doc); err != nil {
		t.Fatalf("SaveYAML failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	var loaded Document
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}

	if loaded.Totals != (Totals{Renamed: 1, CollisionResolved: 1, NotMatched: 1, Failed: 1}) {
		t.Errorf("Unexpected totals %+v", loaded.Totals)
	}
	if len(loaded.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(loaded.Results))
	}
	if loaded.Results[3].Error != "permission denied" {
		t.Errorf("Expected error to be recorded, got %q", loaded.Results[3].Error)
	}
	if loaded.Results[2].Count != "" {
		t.Errorf("Unmatched file should have no count, got %q", loaded.Results[2].Count)
	}
}

func TestNewDocumentSetsTimestamp(t *testing.T) {
	doc := NewDocument(RunInfo{}, nil)
	if doc.Run.Timestamp == "" {
		t.Error("Expected timestamp to be filled in")
	}
	if doc.Results == nil {
		t.Error("Expected empty results slice, got nil")
	}
}
