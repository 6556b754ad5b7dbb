package analysis_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/TFMV/cohrank/analysis"
	"github.com/TFMV/cohrank/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board(entries ...analysis.ScoreEntry) *analysis.Scoreboard {
	b := analysis.NewScoreboard()
	for _, e := range entries {
		b.Put(e)
	}
	return b
}

func TestJoin(t *testing.T) {
	a := board(
		analysis.ScoreEntry{ID: "x", ClassCount: 10, Score: 0.9},
		analysis.ScoreEntry{ID: "onlyA", ClassCount: 1, Score: 1.0},
		analysis.ScoreEntry{ID: "y", ClassCount: 20, Score: 0.5},
		analysis.ScoreEntry{ID: "z", ClassCount: 30, Score: 0.1},
	)
	b := board(
		analysis.ScoreEntry{ID: "z", ClassCount: 31, Score: 0.8},
		analysis.ScoreEntry{ID: "y", ClassCount: 21, Score: 0.6},
		analysis.ScoreEntry{ID: "onlyB", ClassCount: 2, Score: 0.7},
		analysis.ScoreEntry{ID: "x", ClassCount: 11, Score: 0.2},
	)

	got := analysis.Join(a, b, analysis.TieStable)
	want := []types.JoinedArtifact{
		{ID: "x", ClassCount: 10, ScoreA: 0.9, PositionA: 0, ScoreB: 0.2, PositionB: 2, Delta: -2},
		{ID: "y", ClassCount: 20, ScoreA: 0.5, PositionA: 1, ScoreB: 0.6, PositionB: 1, Delta: 0},
		{ID: "z", ClassCount: 30, ScoreA: 0.1, PositionA: 2, ScoreB: 0.8, PositionB: 0, Delta: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Join() mismatch (-want +got):\n%s", diff)
	}
}

func TestJoin_Disjoint(t *testing.T) {
	a := board(analysis.ScoreEntry{ID: "a", Score: 0.5})
	b := board(analysis.ScoreEntry{ID: "b", Score: 0.5})
	assert.Empty(t, analysis.Join(a, b, analysis.TieStable))
}

func randomBoard(rng *rand.Rand, prefix string, n int) *analysis.Scoreboard {
	b := analysis.NewScoreboard()
	for _, i := range rng.Perm(n) {
		b.Put(analysis.ScoreEntry{ID: fmt.Sprintf("%s%d", prefix, i), Score: float64(rng.Intn(10)) / 10})
	}
	return b
}

func TestJoin_IntersectionLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := randomBoard(rng, "m", 60)
	b := randomBoard(rng, "m", 40)
	b.Put(analysis.ScoreEntry{ID: "extra", Score: 0.3})

	joined := analysis.Join(a, b, analysis.TieByID)

	var want []string
	for _, e := range a.Entries() {
		if _, ok := b.Get(e.ID); ok {
			want = append(want, e.ID)
		}
	}
	got := make([]string, 0, len(joined))
	for _, j := range joined {
		got = append(got, j.ID)
	}
	assert.Equal(t, want, got)

	posA := make([]int, 0, len(joined))
	posB := make([]int, 0, len(joined))
	for _, j := range joined {
		assert.Equal(t, j.PositionA-j.PositionB, j.Delta)
		posA = append(posA, j.PositionA)
		posB = append(posB, j.PositionB)
	}
	sort.Ints(posA)
	sort.Ints(posB)
	for i := range posA {
		assert.Equal(t, i, posA[i])
		assert.Equal(t, i, posB[i])
	}
}

func TestJoin_SwapNegatesDelta(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := randomBoard(rng, "m", 50)
	b := randomBoard(rng, "m", 50)

	// Id tie-break makes both orderings independent of which side is iterated.
	ab := analysis.Join(a, b, analysis.TieByID)
	ba := analysis.Join(b, a, analysis.TieByID)
	require.Len(t, ba, len(ab))

	deltas := make(map[string]int, len(ab))
	for _, j := range ab {
		deltas[j.ID] = j.Delta
	}
	for _, j := range ba {
		assert.Equal(t, -deltas[j.ID], j.Delta, j.ID)
	}
}

func TestJoin_RanksWithinSharedPopulation(t *testing.T) {
	a := board(
		analysis.ScoreEntry{ID: "top", Score: 0.99},
		analysis.ScoreEntry{ID: "p", Score: 0.5},
		analysis.ScoreEntry{ID: "q", Score: 0.4},
	)
	b := board(
		analysis.ScoreEntry{ID: "p", Score: 0.5},
		analysis.ScoreEntry{ID: "q", Score: 0.4},
	)

	joined := analysis.Join(a, b, analysis.TieStable)
	require.Len(t, joined, 2)
	assert.Equal(t, 0, joined[0].PositionA, "p is first once top is excluded")
	assert.Equal(t, 0, joined[0].Delta)
	assert.Equal(t, 0, joined[1].Delta)
}
