package analysis_test

import (
	"fmt"

	"github.com/TFMV/cohrank/analysis"
	"github.com/TFMV/cohrank/parser"
	"github.com/TFMV/cohrank/report"
	"github.com/TFMV/cohrank/types"
)

// A high score does not protect an artifact whose readings are too precise.
func Example() {
	p := parser.NewParser(nil)
	n := analysis.NewNormalizer([]string{"LCOM"}, analysis.ClampOutOfRange)
	f := analysis.NewFilter(n, analysis.DefaultReliabilityK)

	board := analysis.NewScoreboard()
	var records []types.ArtifactRecord
	for i, line := range []string{
		"A 10 COH=0.80/0.30 LCOM=0.20/0.10",
		"B 5 COH=0.40/0.20 LCOM=0.60/0.25",
	} {
		rec, err := p.ParseLine(i+1, line)
		if err != nil {
			panic(err)
		}
		score, err := n.Score(rec)
		if err != nil {
			panic(err)
		}
		board.Put(analysis.ScoreEntry{ID: rec.ID, ClassCount: rec.ClassCount, Score: score})
		records = append(records, rec)
	}

	for _, r := range analysis.Rank(board.Entries(), analysis.TieStable) {
		fmt.Println(r.ID, report.FormatScore(r.Score), r.Position)
	}
	for _, rec := range records {
		if ok, why := f.Accept(rec); !ok {
			fmt.Println(rec.ID, "rejected on", why.Metric)
			continue
		}
		fmt.Println(rec.ID, "retained")
	}
	// Output:
	// A 0.8 0
	// B 0.4 1
	// A rejected on LCOM
	// B retained
}
