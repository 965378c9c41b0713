package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	notificationsEvery = 6 * time.Hour
	cartsEvery         = 1 * time.Hour
)

type Scheduler struct {
	cleanup  *CleanupService
	log      *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(cleanup *CleanupService, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cleanup: cleanup,
		log:     log,
		stopCh:  make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting cleanup scheduler")

	s.wg.Add(2)
	go s.loop(ctx, "read notifications", notificationsEvery, s.cleanup.CleanupReadNotifications)
	go s.loop(ctx, "stale carts", cartsEvery, s.cleanup.CleanupStaleCarts)
}

// Stop is safe to call more than once and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("stopping cleanup scheduler")
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, name string, every time.Duration, job func(context.Context) error) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	if err := job(ctx); err != nil {
		s.log.Error("initial cleanup failed", zap.String("job", name), zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := job(ctx); err != nil {
				s.log.Error("cleanup failed", zap.String("job", name), zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("cleanup stopped", zap.String("job", name))
			return
		case <-ctx.Done():
			s.log.Info("cleanup cancelled", zap.String("job", name))
			return
		}
	}
}

func (s *Scheduler) RunOnceNow(ctx context.Context) error {
	return s.cleanup.RunFullCleanup(ctx)
}
