package api

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/umpire-engine/league"
	"github.com/warp/umpire-engine/league/store"
)

func slogDiscard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func seededScheduler(t *testing.T, now time.Time) *RecomputeScheduler {
	t.Helper()
	svc := league.NewService(store.NewMemory(), league.WithLogger(slogDiscard()))
	_, err := Seed(context.Background(), svc, "sample-season")
	require.NoError(t, err)

	rs := NewRecomputeScheduler(svc, slogDiscard())
	rs.now = func() time.Time { return now }
	return rs
}

func TestRecomputeScheduler_RunNow(t *testing.T) {
	// Wednesday before the last, unstaffed, Saturday of the sample season.
	rs := seededScheduler(t, time.Date(2025, time.May, 14, 9, 0, 0, 0, time.UTC))

	run := rs.RunNow(context.Background())

	assert.Empty(t, run.Error)
	assert.Equal(t, 0, run.Updated, "write paths already keep amounts current")
	assert.Equal(t, 12, run.UncoveredNext)

	last, ok := rs.LastRun()
	require.True(t, ok)
	assert.Equal(t, run, last)
}

func TestRecomputeScheduler_NothingNextWeek(t *testing.T) {
	rs := seededScheduler(t, time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))
	run := rs.RunNow(context.Background())
	assert.Equal(t, 0, run.UncoveredNext)
}

func TestRecomputeScheduler_StartRunsImmediately(t *testing.T) {
	rs := seededScheduler(t, time.Date(2025, time.May, 14, 9, 0, 0, 0, time.UTC))
	rs.CheckInterval = time.Hour

	rs.Start()
	rs.Start() // second call is a no-op
	rs.Stop()

	_, ok := rs.LastRun()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.May, 14, 10, 0, 0, 0, time.UTC), rs.NextRunTime())

	rs.Stop() // stopping twice is safe
}

func TestRecomputeScheduler_Disabled(t *testing.T) {
	rs := seededScheduler(t, time.Now())
	rs.Enabled = false

	rs.Start()
	rs.Stop()

	_, ok := rs.LastRun()
	assert.False(t, ok)
}

func TestRecomputeStatus_WithScheduler(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	rs := NewRecomputeScheduler(api.handler.Service, slogDiscard())
	api.handler.Scheduler = rs
	rs.RunNow(context.Background())

	var status SweepStatusDTO
	api.expect(200, "GET", "/api/admin/recompute", nil, &status)
	assert.True(t, status.Enabled)
	require.NotNil(t, status.LastRun)
	assert.Empty(t, status.LastRun.Error)
}
