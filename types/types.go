package types

import (
	"errors"
	"fmt"
)

// Error classes shared by every pipeline stage.
var (
	ErrIO                   = errors.New("io failure")
	ErrMalformedRecord      = errors.New("malformed record")
	ErrMalformedMetricToken = errors.New("malformed metric token")
	ErrEmptyMetricSet       = errors.New("empty metric set")
	ErrMissingArtifact      = errors.New("missing artifact")
	ErrOutOfRange           = errors.New("metric mean out of range")
)

// LineIssue records a per-line problem that was recovered by skipping the line
type LineIssue struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (i LineIssue) String() string {
	if i.ID != "" {
		return fmt.Sprintf("%s:%d (%s): %s", i.Source, i.Line, i.ID, i.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", i.Source, i.Line, i.Reason)
}

// IOError wraps a failure to open, read or write a path
func IOError(op, path string, err error) error {
	return fmt.Errorf("%w: cannot %s %s: %w", ErrIO, op, path, err)
}
