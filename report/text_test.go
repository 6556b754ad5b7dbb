package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/TFMV/cohrank/report"
	"github.com/TFMV/cohrank/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.8, "0.8"},
		{0.1 + 0.2, "0.3"},
		{1, "1"},
		{0, "0"},
		{2.0 / 3.0, "0.66666666666667"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.FormatScore(tt.in))
	}
}

func TestWriteRanking(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteRanking(&buf, []types.RankedArtifact{
		{ID: "A", Score: 0.8, Position: 0},
		{ID: "B", Score: 0.4, Position: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "A 0.8 0\nB 0.4 1\n", buf.String())
}

func TestWriteJoined(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteJoined(&buf, []types.JoinedArtifact{
		{ID: "x", ClassCount: 10, ScoreA: 0.9, PositionA: 0, ScoreB: 0.2, PositionB: 2, Delta: -2},
	})
	require.NoError(t, err)
	assert.Equal(t, "x -2 10 0.9 0 0.2 2\n", buf.String())
}

func TestWriteDivergenceAndRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteDivergence(&buf, []types.DivergenceRecord{{ID: "a", NetDelta: -3}, {ID: "b", NetDelta: 4}}))
	assert.Equal(t, "a -3\nb 4\n", buf.String())

	buf.Reset()
	require.NoError(t, report.WriteRaw(&buf, []types.ArtifactRecord{{Raw: "A 1 COH=0.5/0.5"}}))
	assert.Equal(t, "A 1 COH=0.5/0.5\n", buf.String())
}

func TestReadDeltas(t *testing.T) {
	input := strings.Join([]string{
		"a 3",
		"",
		"lonely",
		"b -2 10 0.5 1 0.4 3",
		"c three",
	}, "\n")

	records, issues, err := report.ReadDeltas("d.txt", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []types.DeltaRecord{
		{ID: "a", Delta: 3, Line: 1},
		{ID: "b", Delta: -2, Line: 4},
	}, records)
	require.Len(t, issues, 1)
	assert.Equal(t, 5, issues[0].Line)
	assert.Equal(t, "c", issues[0].ID)
}

func TestReadJoined_RoundTripsWriter(t *testing.T) {
	joined := []types.JoinedArtifact{
		{ID: "x", ClassCount: 10, ScoreA: 0.9, PositionA: 0, ScoreB: 0.25, PositionB: 1, Delta: -1},
		{ID: "y", ClassCount: 3, ScoreA: 0.5, PositionA: 1, ScoreB: 0.75, PositionB: 0, Delta: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, report.WriteJoined(&buf, joined))
	buf.WriteString("broken 1 2\n")

	got, issues, err := report.ReadJoined("j.txt", &buf)
	require.NoError(t, err)
	assert.Equal(t, joined, got)
	require.Len(t, issues, 1)
	assert.Equal(t, "broken", issues[0].ID)
}

func TestReadDeltas_ReadFailure(t *testing.T) {
	_, _, err := report.ReadDeltas("gone.txt", iotest.ErrReader(errors.New("boom")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrIO))
}

func TestReadDeltas_LongLine(t *testing.T) {
	id := strings.Repeat("pkg/", 40*1024)
	records, issues, err := report.ReadDeltas("d.txt", strings.NewReader(id+" 4\n"))
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, 4, records[0].Delta)
}

func TestReadRanking(t *testing.T) {
	ranked := []types.RankedArtifact{
		{ID: "A", Score: 0.8, Position: 0},
		{ID: "B", Score: 2.0 / 3.0, Position: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, report.WriteRanking(&buf, ranked))
	buf.WriteString("\nshort 0.5\nC high 2\n")

	got, issues, err := report.ReadRanking("r.txt", &buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, 0.8, got[0].Score)
	assert.InDelta(t, 2.0/3.0, got[1].Score, 1e-13)
	assert.Equal(t, 1, got[1].Position)

	require.Len(t, issues, 2)
	assert.Equal(t, "short", issues[0].ID)
	assert.Equal(t, "C", issues[1].ID)
}
