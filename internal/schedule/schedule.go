// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule repeats a pipeline run on a cron expression.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunFunc performs one run. Its error is logged; it never stops the
// scheduler.
type RunFunc func(ctx context.Context) error

// Scheduler invokes a RunFunc on a cron schedule. A tick that arrives while
// the previous run is still going is skipped.
type Scheduler struct {
	cron   *cron.Cron
	run    RunFunc
	logger *zap.Logger
	entry  cron.EntryID

	mu  sync.Mutex
	ctx context.Context
}

// New parses spec (standard five-field cron syntax or a descriptor such as
// "@daily" or "@every 6h") and returns a scheduler that calls run on it.
func New(spec string, run RunFunc, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		run:    run,
		logger: logger,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
	}
	id, err := s.cron.AddJob(spec, s)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// Start runs the scheduler until ctx is cancelled, then waits for a run
// in progress to finish. With runNow set, one run happens before the first
// tick.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	s.setContext(ctx)
	if runNow {
		s.Run()
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.Time("next", s.Next()))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// Next returns the time of the next scheduled run. It is zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// Run implements cron.Job.
func (s *Scheduler) Run() {
	ctx := s.context()
	start := time.Now()
	s.logger.Info("scheduled run starting")
	if err := s.run(ctx); err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}
	s.logger.Info("scheduled run finished", zap.Duration("elapsed", time.Since(start)))
}

func (s *Scheduler) setContext(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
