package analysis

import (
	"fmt"

	"github.com/TFMV/cohrank/types"
)

// DefaultReliabilityK is the smallest uncertainty, as a fraction of the
// (inverted) mean, a reading may carry and still look like a measurement of
// a non-degenerate normal distribution.
const DefaultReliabilityK = 0.31

// Rejection explains why the reliability filter dropped an artifact.
type Rejection struct {
	ID          string
	Line        int
	Metric      string
	Mean        float64
	Uncertainty float64
	Threshold   float64
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %s uncertainty %g below %g (mean %g)", r.ID, r.Metric, r.Uncertainty, r.Threshold, r.Mean)
}

// Filter drops whole artifacts whose readings are too certain to be trusted.
type Filter struct {
	Normalizer *Normalizer
	K          float64
}

func NewFilter(n *Normalizer, k float64) *Filter {
	if k <= 0 {
		k = DefaultReliabilityK
	}
	return &Filter{Normalizer: n, K: k}
}

// Accept reports whether every reading of rec satisfies
// uncertainty >= inverted mean * K. The first failing reading is returned.
// Raw means outside [0,1] are used as they are; the scoring range policy does not apply.
func (f *Filter) Accept(rec types.ArtifactRecord) (bool, Rejection) {
	for _, r := range rec.Readings {
		mu := f.Normalizer.Invert(r.Name, r.Mean)
		threshold := mu * f.K
		if r.Uncertainty < threshold {
			return false, Rejection{
				ID:          rec.ID,
				Line:        rec.Line,
				Metric:      r.Name,
				Mean:        mu,
				Uncertainty: r.Uncertainty,
				Threshold:   threshold,
			}
		}
	}
	return true, Rejection{}
}

// Apply splits records into retained ones, in input order, and rejections.
func (f *Filter) Apply(records []types.ArtifactRecord) ([]types.ArtifactRecord, []Rejection) {
	retained := make([]types.ArtifactRecord, 0, len(records))
	var rejected []Rejection
	for _, rec := range records {
		if ok, why := f.Accept(rec); !ok {
			rejected = append(rejected, why)
			continue
		}
		retained = append(retained, rec)
	}
	return retained, rejected
}
