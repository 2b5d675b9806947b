package penalty

import (
	"context"
	"log/slog"
	"time"
)

type Repo interface {
	DecayPenalties(ctx context.Context) (int64, error)
}

type Service interface {
	// Run performs one decay pass and returns how many members were touched.
	Run(ctx context.Context) (int64, error)
}

type service struct {
	r Repo
}

func New(r Repo) Service { return &service{r: r} }

func (s *service) Run(ctx context.Context) (int64, error) {
	return s.r.DecayPenalties(ctx)
}

// Worker fires the decay once per day at local midnight. A failed run is
// logged and the next run retries from current state; missed runs are not
// caught up.
type Worker struct {
	Svc Service
	Log *slog.Logger
}

func NewWorker(svc Service, log *slog.Logger) *Worker {
	return &Worker{Svc: svc, Log: log}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		for {
			timer := time.NewTimer(untilNextMidnight(time.Now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				w.runOnce(ctx)
			}
		}
	}()
}

func (w *Worker) runOnce(ctx context.Context) {
	n, err := w.Svc.Run(ctx)
	if err != nil {
		w.Log.Error("penalty decay failed", "err", err)
		return
	}
	w.Log.Info("penalty decay", "members", n)
}

func untilNextMidnight(now time.Time) time.Duration {
	now = now.Local()
	y, m, d := now.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
