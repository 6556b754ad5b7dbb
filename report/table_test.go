package report_test

import (
	"strings"
	"testing"

	"github.com/TFMV/cohrank/report"
	"github.com/TFMV/cohrank/types"
	"github.com/stretchr/testify/assert"
)

func TestTable_Ranking(t *testing.T) {
	rep := types.Report{
		Kind: types.KindRanking,
		Ranking: []types.RankedArtifact{
			{ID: "alpha", ClassCount: 10, Score: 0.8, Position: 0},
			{ID: "beta", ClassCount: 5, Score: 0.4, Position: 1},
			{ID: "gamma", ClassCount: 2, Score: 0.1, Position: 2},
		},
	}

	out := report.Table(rep, 2)
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "0.8")
	assert.Contains(t, out, "beta")
	assert.NotContains(t, out, "gamma")
	assert.Contains(t, strings.ToUpper(out), "TOTAL")
}

func TestTable_JoinAndDivergence(t *testing.T) {
	join := report.Table(types.Report{
		Kind:   types.KindJoin,
		Joined: []types.JoinedArtifact{{ID: "x", Delta: -2, ClassCount: 3, ScoreA: 0.5, ScoreB: 0.25}},
	}, 0)
	assert.Contains(t, join, "x")
	assert.Contains(t, join, "-2")
	assert.Contains(t, join, "0.25")

	div := report.Table(types.Report{
		Kind:       types.KindDivergence,
		Divergence: []types.DivergenceRecord{{ID: "y", NetDelta: 7}},
	}, 0)
	assert.Contains(t, div, "y")
	assert.Contains(t, div, "7")
}

func TestTable_Filter(t *testing.T) {
	out := report.Table(types.Report{Kind: types.KindFilter, Retained: 4, Rejected: 9}, 0)
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "9")
}
