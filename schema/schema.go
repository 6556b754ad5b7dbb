package schema

import (
	"fmt"

	surrealdb "github.com/surrealdb/surrealdb.go"
)

// Definitions returns the SurrealQL statements for the published report tables.
func Definitions() []string {
	return []string{
		// One row per pipeline run
		`DEFINE TABLE IF NOT EXISTS runs SCHEMAFULL;
		 DEFINE FIELD IF NOT EXISTS run_id ON runs TYPE string;
		 DEFINE FIELD IF NOT EXISTS kind ON runs TYPE string;
		 DEFINE FIELD IF NOT EXISTS sources ON runs TYPE array<string>;
		 DEFINE FIELD IF NOT EXISTS retained ON runs TYPE int;
		 DEFINE FIELD IF NOT EXISTS rejected ON runs TYPE int;
		 DEFINE FIELD IF NOT EXISTS issues ON runs TYPE int;
		 DEFINE FIELD IF NOT EXISTS created_at ON runs TYPE datetime DEFAULT time::now();
		 DEFINE INDEX IF NOT EXISTS run_id ON runs FIELDS run_id UNIQUE;`,

		// Ranked artifacts
		`DEFINE TABLE IF NOT EXISTS rankings SCHEMAFULL;
		 DEFINE FIELD IF NOT EXISTS run_id ON rankings TYPE string;
		 DEFINE FIELD IF NOT EXISTS artifact ON rankings TYPE string;
		 DEFINE FIELD IF NOT EXISTS class_count ON rankings TYPE int;
		 DEFINE FIELD IF NOT EXISTS score ON rankings TYPE float;
		 DEFINE FIELD IF NOT EXISTS position ON rankings TYPE int;
		 DEFINE FIELD IF NOT EXISTS created_at ON rankings TYPE datetime DEFAULT time::now();
		 DEFINE INDEX IF NOT EXISTS ranking_run ON rankings FIELDS run_id;
		 DEFINE INDEX IF NOT EXISTS ranking_artifact ON rankings FIELDS artifact;`,

		// Artifacts aligned across two rankings
		`DEFINE TABLE IF NOT EXISTS joins SCHEMAFULL;
		 DEFINE FIELD IF NOT EXISTS run_id ON joins TYPE string;
		 DEFINE FIELD IF NOT EXISTS artifact ON joins TYPE string;
		 DEFINE FIELD IF NOT EXISTS class_count ON joins TYPE int;
		 DEFINE FIELD IF NOT EXISTS score_a ON joins TYPE float;
		 DEFINE FIELD IF NOT EXISTS position_a ON joins TYPE int;
		 DEFINE FIELD IF NOT EXISTS score_b ON joins TYPE float;
		 DEFINE FIELD IF NOT EXISTS position_b ON joins TYPE int;
		 DEFINE FIELD IF NOT EXISTS delta ON joins TYPE int;
		 DEFINE FIELD IF NOT EXISTS created_at ON joins TYPE datetime DEFAULT time::now();
		 DEFINE INDEX IF NOT EXISTS join_run ON joins FIELDS run_id;
		 DEFINE INDEX IF NOT EXISTS join_artifact ON joins FIELDS artifact;`,

		// Net drift across two comparisons
		`DEFINE TABLE IF NOT EXISTS divergences SCHEMAFULL;
		 DEFINE FIELD IF NOT EXISTS run_id ON divergences TYPE string;
		 DEFINE FIELD IF NOT EXISTS artifact ON divergences TYPE string;
		 DEFINE FIELD IF NOT EXISTS net_delta ON divergences TYPE int;
		 DEFINE FIELD IF NOT EXISTS created_at ON divergences TYPE datetime DEFAULT time::now();
		 DEFINE INDEX IF NOT EXISTS divergence_run ON divergences FIELDS run_id;`,
	}
}

// InitializeSchema sets up the report tables and indexes
func InitializeSchema(db *surrealdb.DB) error {
	for _, schema := range Definitions() {
		if _, err := surrealdb.Query[any](db, schema, map[string]interface{}{}); err != nil {
			return fmt.Errorf("schema initialization error: %w", err)
		}
	}

	return nil
}
