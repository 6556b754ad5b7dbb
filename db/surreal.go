package db

import (
	"context"
	"fmt"

	"github.com/TFMV/cohrank/schema"
	"github.com/TFMV/cohrank/types"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

type runRow struct {
	ID       *models.RecordID `json:"id,omitempty"`
	RunID    string           `json:"run_id"`
	Kind     string           `json:"kind"`
	Sources  []string         `json:"sources"`
	Retained int              `json:"retained"`
	Rejected int              `json:"rejected"`
	Issues   int              `json:"issues"`
}

type rankingRow struct {
	ID         *models.RecordID `json:"id,omitempty"`
	RunID      string           `json:"run_id"`
	Artifact   string           `json:"artifact"`
	ClassCount int              `json:"class_count"`
	Score      float64          `json:"score"`
	Position   int              `json:"position"`
}

type joinRow struct {
	ID         *models.RecordID `json:"id,omitempty"`
	RunID      string           `json:"run_id"`
	Artifact   string           `json:"artifact"`
	ClassCount int              `json:"class_count"`
	ScoreA     float64          `json:"score_a"`
	PositionA  int              `json:"position_a"`
	ScoreB     float64          `json:"score_b"`
	PositionB  int              `json:"position_b"`
	Delta      int              `json:"delta"`
}

type divergenceRow struct {
	ID       *models.RecordID `json:"id,omitempty"`
	RunID    string           `json:"run_id"`
	Artifact string           `json:"artifact"`
	NetDelta int              `json:"net_delta"`
}

func NewSurrealDB(config Config) (*SurrealDB, error) {
	db, err := surrealdb.New(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SurrealDB{
		db:     db,
		config: config,
	}, nil
}

func (s *SurrealDB) Initialize(ctx context.Context) error {
	if err := s.db.Use(s.config.Namespace, s.config.Database); err != nil {
		return fmt.Errorf("failed to set namespace/database: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: s.config.Username,
		Password: s.config.Password,
	}
	token, err := s.db.SignIn(authData)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err := s.db.Authenticate(token); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := schema.InitializeSchema(s.db); err != nil {
		return err
	}

	return nil
}

func (s *SurrealDB) StoreReport(ctx context.Context, report types.Report) error {
	run := runRow{
		RunID:    report.RunID,
		Kind:     string(report.Kind),
		Sources:  report.Sources,
		Retained: report.Retained,
		Rejected: report.Rejected,
		Issues:   len(report.Issues),
	}
	if _, err := surrealdb.Create[runRow](s.db, models.Table("runs"), run); err != nil {
		return fmt.Errorf("error storing run %s: %w", report.RunID, err)
	}

	for _, r := range report.Ranking {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := rankingRow{
			RunID:      report.RunID,
			Artifact:   r.ID,
			ClassCount: r.ClassCount,
			Score:      r.Score,
			Position:   r.Position,
		}
		if _, err := surrealdb.Create[rankingRow](s.db, models.Table("rankings"), row); err != nil {
			return fmt.Errorf("error storing ranking of %s: %w", r.ID, err)
		}
	}

	for _, j := range report.Joined {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := joinRow{
			RunID:      report.RunID,
			Artifact:   j.ID,
			ClassCount: j.ClassCount,
			ScoreA:     j.ScoreA,
			PositionA:  j.PositionA,
			ScoreB:     j.ScoreB,
			PositionB:  j.PositionB,
			Delta:      j.Delta,
		}
		if _, err := surrealdb.Create[joinRow](s.db, models.Table("joins"), row); err != nil {
			return fmt.Errorf("error storing join of %s: %w", j.ID, err)
		}
	}

	for _, d := range report.Divergence {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := divergenceRow{RunID: report.RunID, Artifact: d.ID, NetDelta: d.NetDelta}
		if _, err := surrealdb.Create[divergenceRow](s.db, models.Table("divergences"), row); err != nil {
			return fmt.Errorf("error storing divergence of %s: %w", d.ID, err)
		}
	}

	return nil
}

// Close closes the underlying connection.
func (s *SurrealDB) Close() error {
	return s.db.Close()
}
