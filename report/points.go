package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/TFMV/cohrank/types"
)

// Point is one (x, y) pair handed to a plotting tool.
type Point struct {
	X float64
	Y float64
}

// Series names a point series the points command can emit.
type Series string

const (
	// SeriesDeltaVsClasses reads a joined file.
	SeriesDeltaVsClasses Series = "delta-classes"
	// SeriesScoreVsPosition reads a rank file.
	SeriesScoreVsPosition Series = "score-position"
)

// ParseSeries validates a series name; the empty string means delta-classes.
func ParseSeries(s string) (Series, error) {
	switch Series(s) {
	case "", SeriesDeltaVsClasses:
		return SeriesDeltaVsClasses, nil
	case SeriesScoreVsPosition:
		return SeriesScoreVsPosition, nil
	}
	return "", fmt.Errorf("unknown point series %q", s)
}

// DeltaVsClasses plots rank divergence against artifact size.
func DeltaVsClasses(joined []types.JoinedArtifact) []Point {
	points := make([]Point, 0, len(joined))
	for _, j := range joined {
		points = append(points, Point{X: float64(j.Delta), Y: float64(j.ClassCount)})
	}
	return points
}

// ScoreVsPosition plots each ranked artifact's score against its position.
func ScoreVsPosition(ranked []types.RankedArtifact) []Point {
	points := make([]Point, 0, len(ranked))
	for _, r := range ranked {
		points = append(points, Point{X: float64(r.Position), Y: r.Score})
	}
	return points
}

// Bounds returns the smallest and largest coordinates of points.
func Bounds(points []Point) (lo, hi Point) {
	for i, p := range points {
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

// WritePoints writes "X Y" lines.
func WritePoints(w io.Writer, points []Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%s %s\n",
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', scoreDigits, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
