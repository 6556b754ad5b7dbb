// Package report reads and writes the line-oriented text formats exchanged
// between pipeline stages.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TFMV/cohrank/types"
)

// maxLineSize bounds a single input line, matching the metric parser.
const maxLineSize = 16 * 1024 * 1024

// scoreDigits matches the precision the historical research scripts printed scores with.
const scoreDigits = 14

// FormatScore prints a score with 14 significant digits and no trailing zeros.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', scoreDigits, 64)
}

// WriteRanking writes "ID SCORE POSITION" lines in rank order.
func WriteRanking(w io.Writer, ranked []types.RankedArtifact) error {
	bw := bufio.NewWriter(w)
	for _, r := range ranked {
		if _, err := fmt.Fprintf(bw, "%s %s %d\n", r.ID, FormatScore(r.Score), r.Position); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJoined writes "ID DELTA CLASS_COUNT SCORE_A POSITION_A SCORE_B POSITION_B" lines.
func WriteJoined(w io.Writer, joined []types.JoinedArtifact) error {
	bw := bufio.NewWriter(w)
	for _, j := range joined {
		if _, err := fmt.Fprintf(bw, "%s %d %d %s %d %s %d\n",
			j.ID, j.Delta, j.ClassCount,
			FormatScore(j.ScoreA), j.PositionA,
			FormatScore(j.ScoreB), j.PositionB); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDivergence writes "ID NET_DELTA" lines.
func WriteDivergence(w io.Writer, records []types.DivergenceRecord) error {
	bw := bufio.NewWriter(w)
	for _, d := range records {
		if _, err := fmt.Fprintf(bw, "%s %d\n", d.ID, d.NetDelta); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteRaw writes the original text of each record, one per line.
func WriteRaw(w io.Writer, records []types.ArtifactRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(r.Raw + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadDeltas parses "ID DELTA ..." lines. Both simple delta files and joined
// files qualify since the delta is always the second field. Lines with fewer
// than two fields are skipped; a non-integer delta is reported as an issue.
func ReadDeltas(source string, r io.Reader) ([]types.DeltaRecord, []types.LineIssue, error) {
	var records []types.DeltaRecord
	var issues []types.LineIssue

	err := eachLine(source, r, func(lineNo int, fields []string) {
		if len(fields) < 2 {
			return
		}
		delta, err := strconv.Atoi(fields[1])
		if err != nil {
			issues = append(issues, types.LineIssue{Source: source, Line: lineNo, ID: fields[0],
				Reason: fmt.Sprintf("%v: delta %q is not an integer", types.ErrMalformedRecord, fields[1])})
			return
		}
		records = append(records, types.DeltaRecord{ID: fields[0], Delta: delta, Line: lineNo})
	})
	if err != nil {
		return nil, nil, err
	}
	return records, issues, nil
}

// ReadJoined parses lines written by WriteJoined.
func ReadJoined(source string, r io.Reader) ([]types.JoinedArtifact, []types.LineIssue, error) {
	var joined []types.JoinedArtifact
	var issues []types.LineIssue

	err := eachLine(source, r, func(lineNo int, fields []string) {
		if len(fields) == 0 {
			return
		}
		j, err := parseJoined(fields)
		if err != nil {
			issues = append(issues, types.LineIssue{Source: source, Line: lineNo, ID: fields[0], Reason: err.Error()})
			return
		}
		joined = append(joined, j)
	})
	if err != nil {
		return nil, nil, err
	}
	return joined, issues, nil
}

// ReadRanking parses "ID SCORE POSITION" lines written by WriteRanking.
func ReadRanking(source string, r io.Reader) ([]types.RankedArtifact, []types.LineIssue, error) {
	var ranked []types.RankedArtifact
	var issues []types.LineIssue

	err := eachLine(source, r, func(lineNo int, fields []string) {
		if len(fields) == 0 {
			return
		}
		if len(fields) != 3 {
			issues = append(issues, types.LineIssue{Source: source, Line: lineNo, ID: fields[0],
				Reason: fmt.Sprintf("%v: want 3 fields, got %d", types.ErrMalformedRecord, len(fields))})
			return
		}
		score, errS := strconv.ParseFloat(fields[1], 64)
		pos, errP := strconv.Atoi(fields[2])
		if err := errors.Join(errS, errP); err != nil {
			issues = append(issues, types.LineIssue{Source: source, Line: lineNo, ID: fields[0],
				Reason: fmt.Sprintf("%v: %v", types.ErrMalformedRecord, err)})
			return
		}
		ranked = append(ranked, types.RankedArtifact{ID: fields[0], Score: score, Position: pos})
	})
	if err != nil {
		return nil, nil, err
	}
	return ranked, issues, nil
}

func parseJoined(fields []string) (types.JoinedArtifact, error) {
	if len(fields) != 7 {
		return types.JoinedArtifact{}, fmt.Errorf("%w: want 7 fields, got %d", types.ErrMalformedRecord, len(fields))
	}
	ints := make([]int, 0, 4)
	for _, i := range []int{1, 2, 4, 6} {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return types.JoinedArtifact{}, fmt.Errorf("%w: field %d: %v", types.ErrMalformedRecord, i+1, err)
		}
		ints = append(ints, n)
	}
	scoreA, errA := strconv.ParseFloat(fields[3], 64)
	scoreB, errB := strconv.ParseFloat(fields[5], 64)
	if err := errors.Join(errA, errB); err != nil {
		return types.JoinedArtifact{}, fmt.Errorf("%w: score: %v", types.ErrMalformedRecord, err)
	}
	return types.JoinedArtifact{
		ID:         fields[0],
		Delta:      ints[0],
		ClassCount: ints[1],
		ScoreA:     scoreA,
		PositionA:  ints[2],
		ScoreB:     scoreB,
		PositionB:  ints[3],
	}, nil
}

func eachLine(source string, r io.Reader, fn func(lineNo int, fields []string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fn(lineNo, strings.Fields(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return types.IOError("read", source, err)
	}
	return nil
}
