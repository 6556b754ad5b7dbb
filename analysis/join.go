package analysis

import "github.com/TFMV/cohrank/types"

// Join aligns two scoreboards by artifact id. Only ids present in both take
// part; each side is ranked again within that shared population, and
// Delta = PositionA - PositionB. Output follows the insertion order of a.
func Join(a, b *Scoreboard, tie TieBreak) []types.JoinedArtifact {
	var joined []types.JoinedArtifact
	for _, ea := range a.Entries() {
		eb, ok := b.Get(ea.ID)
		if !ok {
			continue
		}
		joined = append(joined, types.JoinedArtifact{
			ID:         ea.ID,
			ClassCount: ea.ClassCount,
			ScoreA:     ea.Score,
			ScoreB:     eb.Score,
		})
	}

	idx := make([]int, len(joined))
	for i := range idx {
		idx[i] = i
	}
	id := func(i int) string { return joined[i].ID }

	byA := Order(idx, func(i int) float64 { return joined[i].ScoreA }, id, tie)
	for pos, i := range byA {
		joined[i].PositionA = pos
	}
	byB := Order(idx, func(i int) float64 { return joined[i].ScoreB }, id, tie)
	for pos, i := range byB {
		joined[i].PositionB = pos
	}

	for i := range joined {
		joined[i].Delta = joined[i].PositionA - joined[i].PositionB
	}
	return joined
}
