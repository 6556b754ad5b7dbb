package analysis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/TFMV/cohrank/cache"
	"github.com/TFMV/cohrank/db"
	"github.com/TFMV/cohrank/parser"
	"github.com/TFMV/cohrank/report"
	"github.com/TFMV/cohrank/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures an Analyzer.
type Options struct {
	InvertedMetrics []string
	OutOfRange      OutOfRangePolicy
	ReliabilityK    float64
	TieBreak        TieBreak
	Workers         int
	TokenCacheSize  int
	SkipMissing     bool
}

// Analyzer runs the ranking, filtering, joining and combining stages over files
type Analyzer struct {
	DB          db.DB
	Tokens      *cache.TokenCache
	Parser      *parser.Parser
	Normalizer  *Normalizer
	Reliability *Filter
	Logger      *zap.Logger
	TieBreak    TieBreak
	Workers     int
	CombineOpts CombineOptions
}

// NewAnalyzer creates a new Analyzer with the given options. store may be nil.
func NewAnalyzer(opts Options, logger *zap.Logger, store db.DB) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := cache.NewTokenCache(opts.TokenCacheSize)
	normalizer := NewNormalizer(opts.InvertedMetrics, opts.OutOfRange)
	tie := opts.TieBreak
	if tie == "" {
		tie = TieStable
	}
	return &Analyzer{
		DB:          store,
		Tokens:      tokens,
		Parser:      parser.NewParser(tokens),
		Normalizer:  normalizer,
		Reliability: NewFilter(normalizer, opts.ReliabilityK),
		Logger:      logger,
		TieBreak:    tie,
		Workers:     opts.Workers,
		CombineOpts: CombineOptions{SkipMissing: opts.SkipMissing},
	}
}

// Initialize sets up the publishing database, if one is configured
func (a *Analyzer) Initialize(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Initialize(ctx)
}

// Rank scores every artifact of the metric file at path and ranks them.
func (a *Analyzer) Rank(ctx context.Context, path string) (types.Report, error) {
	records, issues, err := a.load(path)
	if err != nil {
		return types.Report{}, err
	}

	board, scoreIssues, err := a.aggregator().Aggregate(ctx, path, records)
	if err != nil {
		return types.Report{}, fmt.Errorf("failed to score %s: %w", path, err)
	}
	issues = append(issues, scoreIssues...)

	rep := a.newReport(types.KindRanking, path)
	rep.Ranking = Rank(board.Entries(), a.TieBreak)
	rep.Issues = issues

	a.Logger.Info("ranked artifacts",
		zap.String("source", path),
		zap.Int("artifacts", len(rep.Ranking)),
		zap.Int("issues", len(issues)))
	return a.finish(ctx, rep)
}

// Filter applies the reliability filter to the metric file at path and
// returns the retained records in input order.
func (a *Analyzer) Filter(ctx context.Context, path string) (types.Report, []types.ArtifactRecord, error) {
	records, issues, err := a.load(path)
	if err != nil {
		return types.Report{}, nil, err
	}

	retained, rejected := a.Reliability.Apply(records)
	for _, r := range rejected {
		a.Logger.Debug("artifact rejected",
			zap.String("source", path),
			zap.Int("line", r.Line),
			zap.String("reason", r.String()))
	}

	rep := a.newReport(types.KindFilter, path)
	rep.Retained = len(retained)
	rep.Rejected = len(rejected)
	rep.Issues = issues

	a.Logger.Info("filtered artifacts",
		zap.String("source", path),
		zap.Int("retained", rep.Retained),
		zap.Int("rejected", rep.Rejected))
	rep, err = a.finish(ctx, rep)
	if err != nil {
		return types.Report{}, nil, err
	}
	return rep, retained, nil
}

// Join scores both metric files concurrently and compares the rank of every
// artifact present in both.
func (a *Analyzer) Join(ctx context.Context, pathA, pathB string) (types.Report, error) {
	paths := []string{pathA, pathB}
	boards := make([]*Scoreboard, len(paths))
	issues := make([][]types.LineIssue, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			records, loadIssues, err := a.load(path)
			if err != nil {
				return err
			}
			board, scoreIssues, err := a.aggregator().Aggregate(gctx, path, records)
			if err != nil {
				return fmt.Errorf("failed to score %s: %w", path, err)
			}
			boards[i] = board
			issues[i] = append(loadIssues, scoreIssues...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Report{}, err
	}

	rep := a.newReport(types.KindJoin, paths...)
	rep.Joined = Join(boards[0], boards[1], a.TieBreak)
	rep.Issues = append(issues[0], issues[1]...)

	a.Logger.Info("joined rankings",
		zap.Strings("sources", paths),
		zap.Int("left", boards[0].Len()),
		zap.Int("right", boards[1].Len()),
		zap.Int("joined", len(rep.Joined)))
	return a.finish(ctx, rep)
}

// CombineFiles nets the deltas of two delta files.
func (a *Analyzer) CombineFiles(ctx context.Context, path1, path2 string) (types.Report, error) {
	first, issues1, err := a.loadDeltas(path1)
	if err != nil {
		return types.Report{}, err
	}
	second, issues2, err := a.loadDeltas(path2)
	if err != nil {
		return types.Report{}, err
	}

	divergence, skipped, err := Combine(first, second, a.CombineOpts)
	if err != nil {
		return types.Report{}, fmt.Errorf("failed to combine %s and %s: %w", path1, path2, err)
	}

	rep := a.newReport(types.KindDivergence, path1, path2)
	rep.Divergence = divergence
	rep.Issues = append(issues1, issues2...)
	for _, s := range skipped {
		rep.Issues = append(rep.Issues, types.LineIssue{
			Source: path2,
			Line:   s.Line,
			ID:     s.ID,
			Reason: fmt.Sprintf("%v: not in %s", types.ErrMissingArtifact, path1),
		})
	}

	a.Logger.Info("combined deltas",
		zap.Strings("sources", rep.Sources),
		zap.Int("artifacts", len(divergence)),
		zap.Int("skipped", len(skipped)))
	return a.finish(ctx, rep)
}

// Points reads a joined file (delta vs class count) or a rank file (score vs
// position) and returns the pairs of the requested series.
func (a *Analyzer) Points(ctx context.Context, path string, series report.Series) ([]report.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.IOError("open", path, err)
	}
	defer f.Close()

	var points []report.Point
	var issues []types.LineIssue
	switch series {
	case report.SeriesScoreVsPosition:
		var ranked []types.RankedArtifact
		ranked, issues, err = report.ReadRanking(path, f)
		points = report.ScoreVsPosition(ranked)
	default:
		var joined []types.JoinedArtifact
		joined, issues, err = report.ReadJoined(path, f)
		points = report.DeltaVsClasses(joined)
	}
	if err != nil {
		return nil, err
	}
	a.logIssues(issues)

	lo, hi := report.Bounds(points)
	a.Logger.Info("extracted points",
		zap.String("source", path),
		zap.String("series", string(series)),
		zap.Int("points", len(points)),
		zap.Float64("x_min", lo.X), zap.Float64("x_max", hi.X),
		zap.Float64("y_min", lo.Y), zap.Float64("y_max", hi.Y))
	return points, nil
}

func (a *Analyzer) aggregator() *Aggregator {
	return &Aggregator{Normalizer: a.Normalizer, Workers: a.Workers}
}

func (a *Analyzer) load(path string) ([]types.ArtifactRecord, []types.LineIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, types.IOError("open", path, err)
	}
	defer f.Close()

	return a.Parser.ParseReader(path, f)
}

func (a *Analyzer) loadDeltas(path string) ([]types.DeltaRecord, []types.LineIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, types.IOError("open", path, err)
	}
	defer f.Close()

	return report.ReadDeltas(path, f)
}

func (a *Analyzer) newReport(kind types.ReportKind, sources ...string) types.Report {
	return types.Report{
		RunID:     uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Sources:   sources,
	}
}

// finish logs recovered issues and publishes the report when a database is configured.
func (a *Analyzer) finish(ctx context.Context, rep types.Report) (types.Report, error) {
	a.logIssues(rep.Issues)
	if a.DB == nil {
		return rep, nil
	}
	if err := a.DB.StoreReport(ctx, rep); err != nil {
		return types.Report{}, fmt.Errorf("failed to store %s report: %w", rep.Kind, err)
	}
	a.Logger.Debug("report published", zap.String("run_id", rep.RunID))
	return rep, nil
}

func (a *Analyzer) logIssues(issues []types.LineIssue) {
	for _, issue := range issues {
		a.Logger.Warn("line skipped",
			zap.String("source", issue.Source),
			zap.Int("line", issue.Line),
			zap.String("id", issue.ID),
			zap.String("reason", issue.Reason))
	}
}
