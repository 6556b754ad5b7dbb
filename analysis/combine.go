package analysis

import (
	"fmt"

	"github.com/TFMV/cohrank/types"
)

// CombineOptions controls the divergence combiner.
type CombineOptions struct {
	// SkipMissing skips second-file ids that the first file lacks instead of failing.
	SkipMissing bool
}

// Combine nets two delta sequences: NetDelta = delta1 - delta2 for every id in
// both. Output follows the order of first. A second-file id absent from first
// fails with ErrMissingArtifact unless opts.SkipMissing is set, in which case
// the skipped records are returned. A repeated id in either file keeps its
// first slot and takes its last delta.
func Combine(first, second []types.DeltaRecord, opts CombineOptions) ([]types.DivergenceRecord, []types.DeltaRecord, error) {
	var order []string
	d1 := make(map[string]int, len(first))
	for _, rec := range first {
		if _, ok := d1[rec.ID]; !ok {
			order = append(order, rec.ID)
		}
		d1[rec.ID] = rec.Delta
	}

	d2 := make(map[string]int, len(second))
	var skipped []types.DeltaRecord
	for _, rec := range second {
		if _, ok := d1[rec.ID]; !ok {
			if opts.SkipMissing {
				skipped = append(skipped, rec)
				continue
			}
			return nil, nil, fmt.Errorf("line %d: %w: %s", rec.Line, types.ErrMissingArtifact, rec.ID)
		}
		d2[rec.ID] = rec.Delta
	}

	out := make([]types.DivergenceRecord, 0, len(d2))
	for _, id := range order {
		delta2, ok := d2[id]
		if !ok {
			continue
		}
		out = append(out, types.DivergenceRecord{ID: id, NetDelta: d1[id] - delta2})
	}
	return out, skipped, nil
}
