package renamer

import (
	"fmt"

	"github.com/lehigh-university-libraries/staves/internal/mapping"
	"github.com/lehigh-university-libraries/staves/internal/models"
)

// Status is what happened to one file during a rename run.
type Status int

const (
	Renamed Status = iota
	NoMatch
	CollisionResolved
	Error
)

func (s Status) String() string {
	switch s {
	case Renamed:
		return "renamed"
	case NoMatch:
		return "no_match"
	case CollisionResolved:
		return "collision_resolved"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome records the result for one file. Entry is nil when nothing matched.
// FinalName is the file's name after the run, which is the original name
// unless it was renamed.
type Outcome struct {
	File      models.LocalFile
	Entry     *mapping.Entry
	FinalName string
	Status    Status
	Err       error
}

// Summary holds the aggregate counts of a run.
type Summary struct {
	Renamed           int
	CollisionResolved int
	NotMatched        int
	Failed            int
}

// Summarize counts outcomes by status.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case Renamed:
			s.Renamed++
		case CollisionResolved:
			s.CollisionResolved++
		case NoMatch:
			s.NotMatched++
		case Error:
			s.Failed++
		}
	}
	return s
}

// TotalRenamed counts every file that received a new name, collisions included.
func (s Summary) TotalRenamed() int {
	return s.Renamed + s.CollisionResolved
}

func (s Summary) String() string {
	return fmt.Sprintf("Renamed: %d files, %d files not matched", s.TotalRenamed(), s.NotMatched)
}
