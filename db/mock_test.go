package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/TFMV/cohrank/db"
	"github.com/TFMV/cohrank/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDB_RecordsReports(t *testing.T) {
	mock := db.NewMockDB()
	ctx := context.Background()

	require.NoError(t, mock.Initialize(ctx))
	require.NoError(t, mock.StoreReport(ctx, types.Report{RunID: "r1", Kind: types.KindRanking}))
	require.NoError(t, mock.StoreReport(ctx, types.Report{RunID: "r2", Kind: types.KindJoin}))

	got := mock.Reports()
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].RunID)
	assert.Equal(t, types.KindJoin, got[1].Kind)
}

func TestMockDB_Overrides(t *testing.T) {
	mock := db.NewMockDB()
	mock.InitializeFunc = func(ctx context.Context) error { return errors.New("auth failed") }
	mock.StoreReportFunc = func(ctx context.Context, rep types.Report) error { return errors.New("closed") }

	assert.EqualError(t, mock.Initialize(context.Background()), "auth failed")
	assert.EqualError(t, mock.StoreReport(context.Background(), types.Report{}), "closed")
	assert.Empty(t, mock.Reports())
}
