package analysis

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/TFMV/cohrank/types"
	"golang.org/x/sync/errgroup"
)

// TieBreak orders artifacts with equal scores.
type TieBreak string

const (
	// TieStable keeps equal scores in input order.
	TieStable TieBreak = "stable"
	// TieByID orders equal scores by ascending artifact id.
	TieByID TieBreak = "id"
)

// ParseTieBreak validates a tie-break name; the empty string means stable.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case "", TieStable:
		return TieStable, nil
	case TieByID:
		return TieByID, nil
	}
	return "", fmt.Errorf("unknown tie-break %q", s)
}

// ScoreEntry is the aggregated score of one artifact before ranking.
type ScoreEntry struct {
	ID         string
	ClassCount int
	Score      float64
}

// Scoreboard is an insertion-ordered mapping from artifact id to score.
// Each run builds its own.
type Scoreboard struct {
	order   []string
	entries map[string]ScoreEntry
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{entries: make(map[string]ScoreEntry)}
}

// Put stores e. A repeated id replaces the stored entry but keeps its original slot.
func (s *Scoreboard) Put(e ScoreEntry) (replaced bool) {
	if _, ok := s.entries[e.ID]; ok {
		replaced = true
	} else {
		s.order = append(s.order, e.ID)
	}
	s.entries[e.ID] = e
	return replaced
}

func (s *Scoreboard) Get(id string) (ScoreEntry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

func (s *Scoreboard) Len() int {
	return len(s.order)
}

// Entries returns the entries in insertion order.
func (s *Scoreboard) Entries() []ScoreEntry {
	out := make([]ScoreEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Order returns a copy of items sorted by descending key. Ties are resolved by tie.
func Order[T any](items []T, key func(T) float64, id func(T) string, tie TieBreak) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if c := cmp.Compare(key(b), key(a)); c != 0 {
			return c
		}
		if tie == TieByID {
			return cmp.Compare(id(a), id(b))
		}
		return 0
	})
	return sorted
}

// Rank sorts entries by descending score and assigns 0-based positions.
func Rank(entries []ScoreEntry, tie TieBreak) []types.RankedArtifact {
	sorted := Order(entries,
		func(e ScoreEntry) float64 { return e.Score },
		func(e ScoreEntry) string { return e.ID },
		tie)

	ranked := make([]types.RankedArtifact, len(sorted))
	for pos, e := range sorted {
		ranked[pos] = types.RankedArtifact{
			ID:         e.ID,
			ClassCount: e.ClassCount,
			Score:      e.Score,
			Position:   pos,
		}
	}
	return ranked
}

// scoreBatch is the number of records scored by one goroutine.
const scoreBatch = 256

// Aggregator scores parsed records into a Scoreboard.
type Aggregator struct {
	Normalizer *Normalizer
	Workers    int
}

// Aggregate scores every record, in parallel batches, and fills a new Scoreboard
// in input order. Records that cannot be scored are left out and returned as issues.
func (a *Aggregator) Aggregate(ctx context.Context, source string, records []types.ArtifactRecord) (*Scoreboard, []types.LineIssue, error) {
	scores := make([]float64, len(records))
	errs := make([]error, len(records))

	g, ctx := errgroup.WithContext(ctx)
	if a.Workers > 0 {
		g.SetLimit(a.Workers)
	}
	for start := 0; start < len(records); start += scoreBatch {
		end := min(start+scoreBatch, len(records))
		start := start
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				scores[i], errs[i] = a.Normalizer.Score(records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	board := NewScoreboard()
	var issues []types.LineIssue
	for i, rec := range records {
		if errs[i] != nil {
			issues = append(issues, types.LineIssue{Source: source, Line: rec.Line, ID: rec.ID, Reason: errs[i].Error()})
			continue
		}
		if board.Put(ScoreEntry{ID: rec.ID, ClassCount: rec.ClassCount, Score: scores[i]}) {
			issues = append(issues, types.LineIssue{Source: source, Line: rec.Line, ID: rec.ID, Reason: "duplicate artifact id replaces earlier score"})
		}
	}
	return board, issues, nil
}
