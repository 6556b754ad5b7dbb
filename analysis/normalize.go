package analysis

import (
	"fmt"

	"github.com/TFMV/cohrank/types"
)

// DefaultInvertedMetrics are the metric names whose raw value grows as cohesion drops.
// LCOM and LCOM5 are aliases of the same lack-of-cohesion family.
var DefaultInvertedMetrics = []string{"LCOM", "LCOM5"}

// OutOfRangePolicy decides what happens to a mean outside [0,1].
type OutOfRangePolicy string

const (
	ClampOutOfRange  OutOfRangePolicy = "clamp"
	RejectOutOfRange OutOfRangePolicy = "reject"
)

// ParseOutOfRangePolicy validates a policy name; the empty string means clamp.
func ParseOutOfRangePolicy(s string) (OutOfRangePolicy, error) {
	switch OutOfRangePolicy(s) {
	case "", ClampOutOfRange:
		return ClampOutOfRange, nil
	case RejectOutOfRange:
		return RejectOutOfRange, nil
	}
	return "", fmt.Errorf("unknown out-of-range policy %q", s)
}

// Normalizer maps a metric mean onto a unit-interval cohesion value.
type Normalizer struct {
	inverted map[string]struct{}
	policy   OutOfRangePolicy
}

// NewNormalizer creates a Normalizer. A nil inverted list selects DefaultInvertedMetrics;
// an empty non-nil list disables inversion.
func NewNormalizer(inverted []string, policy OutOfRangePolicy) *Normalizer {
	if inverted == nil {
		inverted = DefaultInvertedMetrics
	}
	if policy == "" {
		policy = ClampOutOfRange
	}
	set := make(map[string]struct{}, len(inverted))
	for _, name := range inverted {
		set[name] = struct{}{}
	}
	return &Normalizer{inverted: set, policy: policy}
}

// Inverted reports whether name belongs to the inverted metric set.
func (n *Normalizer) Inverted(name string) bool {
	_, ok := n.inverted[name]
	return ok
}

// Normalize returns 1-mean for inverted metrics and mean otherwise.
func (n *Normalizer) Normalize(name string, mean float64) (float64, error) {
	if mean < 0 || mean > 1 {
		if n.policy == RejectOutOfRange {
			return 0, fmt.Errorf("%w: %s=%g", types.ErrOutOfRange, name, mean)
		}
		mean = min(max(mean, 0), 1)
	}
	return n.Invert(name, mean), nil
}

// Invert applies only the inversion: 1-mean for inverted metrics, mean otherwise.
// The out-of-range policy is not consulted.
func (n *Normalizer) Invert(name string, mean float64) float64 {
	if n.Inverted(name) {
		return 1 - mean
	}
	return mean
}

// Score is the arithmetic mean of the normalized readings of rec.
func (n *Normalizer) Score(rec types.ArtifactRecord) (float64, error) {
	if len(rec.Readings) == 0 {
		return 0, fmt.Errorf("artifact %s: %w", rec.ID, types.ErrEmptyMetricSet)
	}
	sum := 0.0
	for _, r := range rec.Readings {
		v, err := n.Normalize(r.Name, r.Mean)
		if err != nil {
			return 0, fmt.Errorf("artifact %s: %w", rec.ID, err)
		}
		sum += v
	}
	return sum / float64(len(rec.Readings)), nil
}
