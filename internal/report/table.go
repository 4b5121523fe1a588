package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lehigh-university-libraries/staves/internal/renamer"
)

// Table renders one row per outcome.
func Table(outcomes []renamer.Outcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Count", "Final Name", "Status"})

	for _, o := range outcomes {
		count := ""
		if o.Entry != nil {
			count = o.Entry.Count
		}
		tw.AppendRow(table.Row{o.File.Name(), count, o.FinalName, o.Status.String()})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
