package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// MetricReading is one named metric's measurement for one artifact
type MetricReading struct {
	Name        string  `json:"name"`
	Mean        float64 `json:"mean"`
	Uncertainty float64 `json:"uncertainty"`
}

// ArtifactRecord is one parsed input line
type ArtifactRecord struct {
	ID         string          `json:"id"`
	ClassCount int             `json:"class_count"`
	Readings   []MetricReading `json:"readings"`
	Line       int             `json:"line"`
	Raw        string          `json:"-"`
}

// RankedArtifact is an artifact with its aggregated score and rank position
type RankedArtifact struct {
	ID         string  `json:"id"`
	ClassCount int     `json:"class_count"`
	Score      float64 `json:"score"`
	Position   int     `json:"position"`
}

// JoinedArtifact aligns one artifact across two rankings.
// Delta is PositionA - PositionB.
type JoinedArtifact struct {
	ID         string  `json:"id"`
	ClassCount int     `json:"class_count"`
	ScoreA     float64 `json:"score_a"`
	PositionA  int     `json:"position_a"`
	ScoreB     float64 `json:"score_b"`
	PositionB  int     `json:"position_b"`
	Delta      int     `json:"delta"`
}

// DeltaRecord is one line of a delta file
type DeltaRecord struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
	Line  int    `json:"line"`
}

// DivergenceRecord is the net drift of an artifact across two comparisons
type DivergenceRecord struct {
	ID       string `json:"id"`
	NetDelta int    `json:"net_delta"`
}

// ReportKind names the operation that produced a report
type ReportKind string

const (
	KindRanking    ReportKind = "ranking"
	KindFilter     ReportKind = "filter"
	KindJoin       ReportKind = "join"
	KindDivergence ReportKind = "divergence"
)

// Report contains the complete results of one run
type Report struct {
	RunID      string             `json:"run_id"`
	Kind       ReportKind         `json:"kind"`
	CreatedAt  time.Time          `json:"created_at"`
	Sources    []string           `json:"sources"`
	Ranking    []RankedArtifact   `json:"ranking,omitempty"`
	Joined     []JoinedArtifact   `json:"joined,omitempty"`
	Divergence []DivergenceRecord `json:"divergence,omitempty"`
	Retained   int                `json:"retained,omitempty"`
	Rejected   int                `json:"rejected,omitempty"`
	Issues     []LineIssue        `json:"issues,omitempty"`
}

// PrettyPrint returns a formatted summary of the report
func (r Report) PrettyPrint() string {
	type Extreme struct {
		ID    string `json:"id"`
		Value any    `json:"value"`
	}

	type Summary struct {
		RunID     string     `json:"run_id"`
		Kind      ReportKind `json:"kind"`
		Sources   []string   `json:"sources"`
		Artifacts int        `json:"artifacts"`
		Retained  int        `json:"retained,omitempty"`
		Rejected  int        `json:"rejected,omitempty"`
		Issues    int        `json:"issues"`
		Top       *Extreme   `json:"top,omitempty"`
		Bottom    *Extreme   `json:"bottom,omitempty"`
	}

	summary := Summary{
		RunID:    r.RunID,
		Kind:     r.Kind,
		Sources:  r.Sources,
		Retained: r.Retained,
		Rejected: r.Rejected,
		Issues:   len(r.Issues),
	}

	switch r.Kind {
	case KindRanking:
		summary.Artifacts = len(r.Ranking)
		if n := len(r.Ranking); n > 0 {
			summary.Top = &Extreme{ID: r.Ranking[0].ID, Value: r.Ranking[0].Score}
			summary.Bottom = &Extreme{ID: r.Ranking[n-1].ID, Value: r.Ranking[n-1].Score}
		}
	case KindJoin:
		summary.Artifacts = len(r.Joined)
		for i, j := range r.Joined {
			if i == 0 || j.Delta > summary.Top.Value.(int) {
				summary.Top = &Extreme{ID: j.ID, Value: j.Delta}
			}
			if i == 0 || j.Delta < summary.Bottom.Value.(int) {
				summary.Bottom = &Extreme{ID: j.ID, Value: j.Delta}
			}
		}
	case KindDivergence:
		summary.Artifacts = len(r.Divergence)
	case KindFilter:
		summary.Artifacts = r.Retained
	}

	jsonBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}

	return string(jsonBytes)
}
