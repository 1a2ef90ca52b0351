package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker long-running worker
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker drives onWork on a fixed interval until ctx is done.
// A failing tick backs off to ErrDelay.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick start tick loop
func (w *TickWorker) StartTick(ctx context.Context, onWork func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}

	errDelay := w.ErrDelay
	if errDelay <= 0 {
		errDelay = 10 * time.Second
	}

	dur := time.Millisecond
	timer := time.NewTimer(dur)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := onWork(ctx); err != nil {
				dur = errDelay
			} else {
				dur = delay
			}

			timer.Reset(dur)
		}
	}
}

// BaseJob cron-driven job; Run is skipped while a previous run is still
// in flight.
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    func() error
}

// Start start cron
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop cron
func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

// Run run job once
func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	job.OnWork()
	job.IsRunning = false
}
