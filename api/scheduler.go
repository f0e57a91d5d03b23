/*
scheduler.go - Periodic amount reconciliation and coverage sweep

PURPOSE:
  Every write path already recomputes what it touches. The sweep is a
  safety net for data changed outside the service (manual SQL, restores):
  it re-prices all unpaid assignments against the current rate log and
  logs next week's games that still lack umpires.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Runs once immediately on Start
  - Keeps the outcome of the last run for the admin status endpoint

CONFIGURATION (config.RecomputeConfig):
  - Interval: how often to sweep (default: 1 hour)
  - Enabled:  whether the sweep runs at all (default: false)

USAGE:
  scheduler := NewRecomputeScheduler(svc, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/warp/umpire-engine/league"
)

// SweepRun records the outcome of one sweep.
type SweepRun struct {
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	Updated       int       `json:"updated"`
	UncoveredNext int       `json:"uncovered_next_week"`
	Error         string    `json:"error,omitempty"`
}

// RecomputeScheduler periodically reconciles stored amounts.
type RecomputeScheduler struct {
	Service       *league.Service
	Logger        *slog.Logger
	CheckInterval time.Duration
	Enabled       bool

	// now is swapped in tests.
	now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	lastMu  sync.RWMutex
	lastRun *SweepRun
}

func NewRecomputeScheduler(svc *league.Service, logger *slog.Logger) *RecomputeScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecomputeScheduler{
		Service:       svc,
		Logger:        logger.With("component", "recompute_scheduler"),
		CheckInterval: time.Hour,
		Enabled:       true,
		now:           time.Now,
	}
}

// Start begins the scheduler.
func (rs *RecomputeScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Info("scheduler disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)
	go rs.run()

	rs.Logger.Info("scheduler started", "interval", rs.CheckInterval.String())
}

// Stop stops the scheduler and waits for an in-flight sweep.
func (rs *RecomputeScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker == nil {
		return
	}
	rs.ticker.Stop()
	close(rs.stop)
	rs.wg.Wait()
	rs.ticker = nil
	rs.Logger.Info("scheduler stopped")
}

func (rs *RecomputeScheduler) run() {
	defer rs.wg.Done()

	rs.RunNow(context.Background())
	for {
		select {
		case <-rs.ticker.C:
			rs.RunNow(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// RunNow performs one sweep synchronously and returns its record.
func (rs *RecomputeScheduler) RunNow(ctx context.Context) SweepRun {
	run := SweepRun{StartedAt: rs.now()}

	updated, err := rs.Service.RecomputeAll(ctx, nil)
	if err != nil {
		run.Error = err.Error()
		rs.Logger.ErrorContext(ctx, "recompute sweep failed", "error", err)
	}
	run.Updated = updated
	if updated > 0 {
		rs.Logger.WarnContext(ctx, "recompute sweep corrected stored amounts", "updated", updated)
	}

	// Next Monday through Sunday.
	from := league.DateOf(run.StartedAt).StartOfWeek().AddDays(7)
	to := from.AddDays(6)
	report, err := rs.Service.Coverage(ctx, league.GameFilter{From: &from, To: &to})
	if err != nil {
		if run.Error == "" {
			run.Error = err.Error()
		}
		rs.Logger.ErrorContext(ctx, "coverage check failed", "error", err)
	} else {
		run.UncoveredNext = len(report.Unassigned) + len(report.PartiallyStaffed)
		for _, gc := range report.Unassigned {
			rs.Logger.WarnContext(ctx, "game has no umpires", "game_id", gc.Game.ID, "game", gc.Game.String())
		}
	}

	run.CompletedAt = rs.now()
	rs.lastMu.Lock()
	rs.lastRun = &run
	rs.lastMu.Unlock()
	return run
}

// LastRun returns the most recent sweep, if any.
func (rs *RecomputeScheduler) LastRun() (SweepRun, bool) {
	rs.lastMu.RLock()
	defer rs.lastMu.RUnlock()
	if rs.lastRun == nil {
		return SweepRun{}, false
	}
	return *rs.lastRun, true
}

// NextRunTime returns when the next scheduled sweep will occur.
func (rs *RecomputeScheduler) NextRunTime() time.Time {
	return rs.now().Add(rs.CheckInterval)
}

// SweepStatusDTO is returned by GET /api/admin/recompute.
type SweepStatusDTO struct {
	Enabled bool      `json:"enabled"`
	NextRun time.Time `json:"next_run,omitempty"`
	LastRun *SweepRun `json:"last_run,omitempty"`
}

// RecomputeStatus reports the sweep's last outcome.
func (h *Handler) RecomputeStatus(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeJSON(w, http.StatusOK, SweepStatusDTO{})
		return
	}
	status := SweepStatusDTO{Enabled: h.Scheduler.Enabled, NextRun: h.Scheduler.NextRunTime()}
	if last, ok := h.Scheduler.LastRun(); ok {
		status.LastRun = &last
	}
	writeJSON(w, http.StatusOK, status)
}
