package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/TFMV/cohrank/types"
)

// Table renders the rows of rep as a terminal table. limit caps the number of
// rows; 0 means all of them.
func Table(rep types.Report, limit int) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)

	switch rep.Kind {
	case types.KindRanking:
		w.AppendHeader(table.Row{"Position", "Artifact", "Classes", "Score"})
		for _, r := range capRows(rep.Ranking, limit) {
			w.AppendRow(table.Row{r.Position, r.ID, r.ClassCount, FormatScore(r.Score)})
		}
		w.AppendFooter(table.Row{"", "Total", len(rep.Ranking), ""})
	case types.KindJoin:
		w.AppendHeader(table.Row{"Artifact", "Delta", "Classes", "Score A", "Pos A", "Score B", "Pos B"})
		for _, j := range capRows(rep.Joined, limit) {
			w.AppendRow(table.Row{j.ID, j.Delta, j.ClassCount, FormatScore(j.ScoreA), j.PositionA, FormatScore(j.ScoreB), j.PositionB})
		}
		w.AppendFooter(table.Row{"Total", len(rep.Joined)})
	case types.KindDivergence:
		w.AppendHeader(table.Row{"Artifact", "Net delta"})
		for _, d := range capRows(rep.Divergence, limit) {
			w.AppendRow(table.Row{d.ID, d.NetDelta})
		}
		w.AppendFooter(table.Row{"Total", len(rep.Divergence)})
	case types.KindFilter:
		w.AppendHeader(table.Row{"Retained", "Rejected", "Issues"})
		w.AppendRow(table.Row{rep.Retained, rep.Rejected, len(rep.Issues)})
	}

	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	return w.Render()
}

func capRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
