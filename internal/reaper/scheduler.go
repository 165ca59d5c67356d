package reaper

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/privateboard/privateboard/pkg/logger"
)

// cronLogger adapts the package logger for robfig/cron.
type cronLogger struct{}

func (cronLogger) Printf(format string, v ...interface{}) { logger.Warnf(format, v...) }

// Scheduler runs the reaper on a cron schedule. SkipIfStillRunning makes
// runs non-reentrant: a cycle finishes completely before the next one may
// start, so an expired batch is never processed twice concurrently.
type Scheduler struct {
	reaper   *Reaper
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

func NewScheduler(r *Reaper, schedule string) *Scheduler {
	return &Scheduler{
		reaper:   r,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(cronLogger{})))),
	}
}

// Start validates the schedule and begins running cycles. The scheduler
// stops when ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		logger.Infof("reaper: no schedule configured, skipping")
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid reap schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.reaper.Run(ctx) }); err != nil {
		return fmt.Errorf("schedule reaper: %w", err)
	}
	s.cron.Start()
	s.running = true
	logger.Infof("reaper: scheduled with %q", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts scheduling and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		logger.Infof("reaper: scheduler stopped")
	}
}
