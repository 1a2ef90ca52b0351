package interest

import (
	"context"
	"time"

	"stellend/core"
	"stellend/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker commits pool interest on a schedule so the borrow index keeps
// moving even while no one is transacting.
type Worker struct {
	worker.BaseJob
	pools core.IPoolService
}

// New new interest worker
func New(location string, pools core.IPoolService) *Worker {
	job := Worker{
		pools: pools,
	}

	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.Local
	}

	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 1m"
	job.Cron.AddFunc(spec, job.BaseJob.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	w.Start()
	defer w.Stop()

	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) onWork(ctx context.Context) error {
	if err := w.pools.AccrueInterest(ctx); err != nil && err != core.ErrNotInitialized {
		logger.FromContext(ctx).WithError(err).Errorln("pools.AccrueInterest")
		return err
	}

	return nil
}
