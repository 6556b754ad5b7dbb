package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/TFMV/cohrank/analysis"
	"github.com/TFMV/cohrank/config"
	"github.com/TFMV/cohrank/db"
	"github.com/TFMV/cohrank/logging"
	"github.com/TFMV/cohrank/report"
	"github.com/TFMV/cohrank/types"
	"github.com/docopt/docopt-go"
	"go.uber.org/zap"
)

const version = "cohrank 0.1.0"

const usage = `cohrank ranks software artifacts by aggregated cohesion metrics
and compares how their ranks shift between two metric snapshots.

Usage:
  cohrank rank [options] <input> <output>
  cohrank filter [options] <input> <output>
  cohrank join [options] <input-a> <input-b> <output>
  cohrank combine [options] <deltas-1> <deltas-2> <output>
  cohrank points [options] <input> <output>
  cohrank -h | --help
  cohrank --version

Options:
  -h --help           Show this screen.
  --version           Show version.
  --config=<path>     YAML configuration file.
  --tie-break=<mode>  Order of equal scores: stable or id.
  --skip-missing      Skip second-file ids missing from the first delta file.
  --publish           Store the report in SurrealDB.
  --summary           Print a JSON summary of the run to stdout.
  --table             Print the report rows as a table to stdout.
  --limit=<n>         Rows shown by --table, 0 for all [default: 20].
  --series=<name>     Points to extract: delta-classes from a joined file or
                      score-position from a rank file [default: delta-classes].
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, docopt.PrintHelpAndExit); err != nil {
		fmt.Fprintf(os.Stderr, "cohrank: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, argv []string, stdout io.Writer, help func(error, string)) error {
	p := &docopt.Parser{HelpHandler: help}
	opts, err := p.ParseArgs(usage, argv, version)
	if err != nil {
		return err
	}

	cfg, errs := config.Load(optString(opts, "--config"))
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	if mode := optString(opts, "--tie-break"); mode != "" {
		cfg.TieBreak = mode
	}
	if optBool(opts, "--skip-missing") {
		cfg.SkipMissing = true
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	analyzer, err := newAnalyzer(cfg, logger, optBool(opts, "--publish"))
	if err != nil {
		return err
	}
	if closer, ok := analyzer.DB.(io.Closer); ok {
		defer closer.Close()
	}
	if err := analyzer.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize publishing: %w", err)
	}

	var rep types.Report
	switch {
	case optBool(opts, "rank"):
		rep, err = analyzer.Rank(ctx, optString(opts, "<input>"))
		if err == nil {
			err = writeFile(optString(opts, "<output>"), func(w io.Writer) error {
				return report.WriteRanking(w, rep.Ranking)
			})
		}
	case optBool(opts, "filter"):
		var retained []types.ArtifactRecord
		rep, retained, err = analyzer.Filter(ctx, optString(opts, "<input>"))
		if err == nil {
			err = writeFile(optString(opts, "<output>"), func(w io.Writer) error {
				return report.WriteRaw(w, retained)
			})
		}
	case optBool(opts, "join"):
		rep, err = analyzer.Join(ctx, optString(opts, "<input-a>"), optString(opts, "<input-b>"))
		if err == nil {
			err = writeFile(optString(opts, "<output>"), func(w io.Writer) error {
				return report.WriteJoined(w, rep.Joined)
			})
		}
	case optBool(opts, "combine"):
		rep, err = analyzer.CombineFiles(ctx, optString(opts, "<deltas-1>"), optString(opts, "<deltas-2>"))
		if err == nil {
			err = writeFile(optString(opts, "<output>"), func(w io.Writer) error {
				return report.WriteDivergence(w, rep.Divergence)
			})
		}
	case optBool(opts, "points"):
		return writePoints(ctx, analyzer, opts, stdout)
	default:
		return fmt.Errorf("no command given")
	}
	if err != nil {
		return err
	}

	if optBool(opts, "--summary") {
		fmt.Fprintln(stdout, rep.PrettyPrint())
	}
	if optBool(opts, "--table") {
		limit, err := strconv.Atoi(optString(opts, "--limit"))
		if err != nil {
			return fmt.Errorf("invalid --limit: %w", err)
		}
		fmt.Fprintln(stdout, report.Table(rep, limit))
	}
	return nil
}

func writePoints(ctx context.Context, analyzer *analysis.Analyzer, opts docopt.Opts, stdout io.Writer) error {
	series, err := report.ParseSeries(optString(opts, "--series"))
	if err != nil {
		return err
	}
	points, err := analyzer.Points(ctx, optString(opts, "<input>"), series)
	if err != nil {
		return err
	}
	err = writeFile(optString(opts, "<output>"), func(w io.Writer) error {
		return report.WritePoints(w, points)
	})
	if err != nil {
		return err
	}

	if optBool(opts, "--summary") {
		lo, hi := report.Bounds(points)
		fmt.Fprintf(stdout, "%s: %d points, x in [%s, %s], y in [%s, %s]\n", series, len(points),
			report.FormatScore(lo.X), report.FormatScore(hi.X),
			report.FormatScore(lo.Y), report.FormatScore(hi.Y))
	}
	return nil
}

func newAnalyzer(cfg *config.Config, logger *zap.Logger, publish bool) (*analysis.Analyzer, error) {
	tie, err := analysis.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}
	policy, err := analysis.ParseOutOfRangePolicy(cfg.OutOfRange)
	if err != nil {
		return nil, err
	}

	var store db.DB
	if publish {
		sdb, err := db.NewSurrealDB(db.Config{
			URL:       cfg.DB.URL,
			Namespace: cfg.DB.Namespace,
			Database:  cfg.DB.Database,
			Username:  cfg.DB.Username,
			Password:  cfg.DB.Password,
		})
		if err != nil {
			return nil, err
		}
		store = sdb
	}

	return analysis.NewAnalyzer(analysis.Options{
		InvertedMetrics: cfg.InvertedMetrics,
		OutOfRange:      policy,
		ReliabilityK:    cfg.ReliabilityK,
		TieBreak:        tie,
		Workers:         cfg.Workers,
		TokenCacheSize:  cfg.TokenCacheSize,
		SkipMissing:     cfg.SkipMissing,
	}, logger, store), nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return types.IOError("create", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return types.IOError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return types.IOError("close", path, err)
	}
	return nil
}

func optString(opts docopt.Opts, key string) string {
	s, _ := opts[key].(string)
	return s
}

func optBool(opts docopt.Opts, key string) bool {
	b, _ := opts[key].(bool)
	return b
}
