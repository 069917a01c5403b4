package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/encodeous/topomon/perf"
	"github.com/encodeous/topomon/state"
	"github.com/robfig/cron/v3"
)

type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseRunningCycle
	PhaseSleeping
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunningCycle:
		return "running"
	case PhaseSleeping:
		return "sleeping"
	}
	return fmt.Sprintf("phase(%d)", int32(p))
}

// Sleeper waits between cycles. It returns early with an error when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

type Cycle func(ctx context.Context) error

// Scheduler runs cycles one after another, sleeping Interval between the end of
// a cycle and the start of the next.
type Scheduler struct {
	Interval time.Duration
	OnError  string
	Sleeper  Sleeper
	Log      *slog.Logger

	phase atomic.Int32
}

func (s *Scheduler) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *Scheduler) sleeper() Sleeper {
	if s.Sleeper == nil {
		return timerSleeper{}
	}
	return s.Sleeper
}

func (s *Scheduler) log() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// runCycle runs one cycle and applies the error policy. A non-nil return stops the scheduler.
func (s *Scheduler) runCycle(ctx context.Context, cycle Cycle) error {
	s.phase.Store(int32(PhaseRunningCycle))
	err := cycle(ctx)
	if err == nil {
		perf.CyclesCompleted.Add(1)
		return nil
	}
	if ctx.Err() != nil {
		// interrupted by shutdown
		return nil
	}
	perf.CyclesFailed.Add(1)
	if s.OnError == state.OnErrorSkip {
		s.log().Error("cycle failed, will retry next cycle", "error", err)
		return nil
	}
	return err
}

// Run loops until ctx is done or a cycle fails under the abort policy.
func (s *Scheduler) Run(ctx context.Context, cycle Cycle) error {
	defer s.phase.Store(int32(PhaseIdle))
	for ctx.Err() == nil {
		if err := s.runCycle(ctx, cycle); err != nil {
			return err
		}
		s.phase.Store(int32(PhaseSleeping))
		s.log().Info("waiting for the next cycle", "interval", s.Interval)
		if err := s.sleeper().Sleep(ctx, s.Interval); err != nil {
			break
		}
	}
	return nil
}

// RunOnce runs a single cycle. Failures are always returned.
func (s *Scheduler) RunOnce(ctx context.Context, cycle Cycle) error {
	defer s.phase.Store(int32(PhaseIdle))
	s.phase.Store(int32(PhaseRunningCycle))
	err := cycle(ctx)
	if err != nil {
		perf.CyclesFailed.Add(1)
		return err
	}
	perf.CyclesCompleted.Add(1)
	return nil
}

// RunCron fires cycles on a standard cron schedule instead of a fixed delay.
// A firing that comes while the previous cycle is still running is skipped.
func (s *Scheduler) RunCron(ctx context.Context, schedule string, cycle Cycle) error {
	defer s.phase.Store(int32(PhaseIdle))
	logger := cronLogger{s.log()}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))

	failed := make(chan error, 1)
	_, err := c.AddFunc(schedule, func() {
		if err := s.runCycle(ctx, cycle); err != nil {
			select {
			case failed <- err:
			default:
			}
		}
		s.phase.Store(int32(PhaseSleeping))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	s.phase.Store(int32(PhaseSleeping))
	c.Start()
	select {
	case <-ctx.Done():
	case err = <-failed:
	}
	<-c.Stop().Done()
	return err
}

// cronLogger routes cron's own logs into slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
