package db

import (
	"context"

	"github.com/TFMV/cohrank/types"
)

var _ DB = (*SurrealDB)(nil)

// DB receives finished reports. Nothing in the pipeline reads them back.
type DB interface {
	// Initialize prepares the sink, e.g. signs in and defines tables.
	Initialize(ctx context.Context) error
	// StoreReport publishes one run's results tagged with its run id.
	StoreReport(ctx context.Context, report types.Report) error
}
