package report

import (
	"fmt"
	"os"
	"time"

	"github.com/lehigh-university-libraries/staves/internal/renamer"
	"gopkg.in/yaml.v3"
)

// RunInfo describes the inputs of a rename run.
type RunInfo struct {
	DataDir     string `yaml:"datadir"`
	MappingFile string `yaml:"mappingfile"`
	Entries     int    `yaml:"entries"`
	Timestamp   string `yaml:"timestamp"`
}

// FileResult is one outcome in the report file.
type FileResult struct {
	File          string `yaml:"file"`
	CanonicalName string `yaml:"canonicalname,omitempty"`
	Count         string `yaml:"count,omitempty"`
	FinalName     string `yaml:"finalname"`
	Status        string `yaml:"status"`
	Error         string `yaml:"error,omitempty"`
}

// Totals mirrors renamer.Summary.
type Totals struct {
	Renamed           int `yaml:"renamed"`
	CollisionResolved int `yaml:"collisionresolved"`
	NotMatched        int `yaml:"notmatched"`
	Failed            int `yaml:"failed"`
}

// Document is the complete report.
type Document struct {
	Run     RunInfo      `yaml:"run"`
	Totals  Totals       `yaml:"totals"`
	Results []FileResult `yaml:"results"`
}

// NewDocument builds a report from a run's outcomes.
func NewDocument(info RunInfo, outcomes []renamer.Outcome) Document {
	if info.Timestamp == "" {
		info.Timestamp = time.Now().Format(time.RFC3339)
	}

	s := renamer.Summarize(outcomes)
	doc := Document{
		Run: info,
		Totals: Totals{
			Renamed:           s.Renamed,
			CollisionResolved: s.CollisionResolved,
			NotMatched:        s.NotMatched,
			Failed:            s.Failed,
		},
		Results: make([]FileResult, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		result := FileResult{
			File:      o.File.Name(),
			FinalName: o.FinalName,
			Status:    o.Status.String(),
		}
		if o.Entry != nil {
			result.CanonicalName = o.Entry.CanonicalName
			result.Count = o.Entry.Count
		}
		if o.Err != nil {
			result.Error = o.Err.Error()
		}
		doc.Results = append(doc.Results, result)
	}

	return doc
}

// SaveYAML writes doc to path.
func SaveYAML(path string, doc Document) error {
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}
