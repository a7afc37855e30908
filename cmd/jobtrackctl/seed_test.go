package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/app"
	"jobtracker/internal/config"
	"jobtracker/internal/domain/application"
	"jobtracker/internal/domain/jobad"
	"jobtracker/internal/storage"
	"jobtracker/internal/testutil"
)

func TestSeed_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := app.NewServices(config.Default(), db, storage.NewMemoryStore(), logger)
	require.NoError(t, err)

	require.NoError(t, seed(ctx, svc))
	require.NoError(t, seed(ctx, svc))

	_, total, err := svc.JobAds.List(ctx, jobad.ListFilter{Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, len(seedAds), total)

	_, recruiters, err := svc.Recruiters.List(ctx, 100, 0)
	require.NoError(t, err)
	assert.EqualValues(t, len(seedRecruiters), recruiters)

	stats, err := svc.Applications.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(seedAds), stats.Total)
	assert.EqualValues(t, 1, stats.ByStatus[application.StatusInterview])
	assert.EqualValues(t, 1, stats.ByStatus[application.StatusRejected])
	assert.EqualValues(t, 1, stats.ByStatus[application.StatusCreated])
}
