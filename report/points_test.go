package report_test

import (
	"bytes"
	"testing"

	"github.com/TFMV/cohrank/report"
	"github.com/TFMV/cohrank/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaVsClasses(t *testing.T) {
	points := report.DeltaVsClasses([]types.JoinedArtifact{
		{ID: "a", Delta: -3, ClassCount: 12},
		{ID: "b", Delta: 5, ClassCount: 4},
	})
	assert.Equal(t, []report.Point{{X: -3, Y: 12}, {X: 5, Y: 4}}, points)

	lo, hi := report.Bounds(points)
	assert.Equal(t, report.Point{X: -3, Y: 4}, lo)
	assert.Equal(t, report.Point{X: 5, Y: 12}, hi)
}

func TestScoreVsPosition(t *testing.T) {
	points := report.ScoreVsPosition([]types.RankedArtifact{
		{ID: "a", Score: 0.9, Position: 0},
		{ID: "b", Score: 0.3, Position: 1},
	})
	assert.Equal(t, []report.Point{{X: 0, Y: 0.9}, {X: 1, Y: 0.3}}, points)
}

func TestBounds_Empty(t *testing.T) {
	lo, hi := report.Bounds(nil)
	assert.Equal(t, report.Point{}, lo)
	assert.Equal(t, report.Point{}, hi)
}

func TestWritePoints(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WritePoints(&buf, []report.Point{{X: -3, Y: 12}, {X: 1, Y: 0.5}}))
	assert.Equal(t, "-3 12\n1 0.5\n", buf.String())
}

func TestParseSeries(t *testing.T) {
	s, err := report.ParseSeries("")
	require.NoError(t, err)
	assert.Equal(t, report.SeriesDeltaVsClasses, s)

	s, err = report.ParseSeries("score-position")
	require.NoError(t, err)
	assert.Equal(t, report.SeriesScoreVsPosition, s)

	_, err = report.ParseSeries("histogram")
	assert.Error(t, err)
}
