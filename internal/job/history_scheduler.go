// Package job provides background job schedulers.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/pkg/locker"
)

const historyLockKey = "history:scheduler:lock"

// HistorySyncer refreshes stored profile histories.
type HistorySyncer interface {
	SyncAll(ctx context.Context) ([]service.SyncResult, error)
}

// HistoryScheduler runs periodic profile history refreshes with distributed
// locking so that only one instance refreshes per interval.
type HistoryScheduler struct {
	syncer   HistorySyncer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// HistoryConfig holds history scheduler configuration.
type HistoryConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewHistoryScheduler creates a new HistoryScheduler.
func NewHistoryScheduler(
	syncer HistorySyncer,
	cfg HistoryConfig,
	logger *zap.Logger,
	l locker.DistributedLocker,
) *HistoryScheduler {
	return &HistoryScheduler{
		syncer:   syncer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger.Named("history_scheduler"),
		locker:   l,
	}
}

// Start begins the background refresh loop.
func (s *HistoryScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting history scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler and waits for a running refresh.
func (s *HistoryScheduler) Stop() {
	s.logger.Info("stopping history scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("history scheduler stopped")
}

func (s *HistoryScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.execute(s.ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(s.ctx)
		}
	}
}

// execute runs one refresh under the cooldown lock. The lock TTL is the
// interval: it is held after a clean run and released when any profile failed.
func (s *HistoryScheduler) execute(ctx context.Context) {
	err := locker.Cooldown(ctx, s.locker, historyLockKey, s.interval, func(ctx context.Context) error {
		runCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		results, err := s.syncer.SyncAll(runCtx)
		if err != nil {
			return err
		}

		synced, failed := 0, 0
		for _, r := range results {
			if r.Error != nil {
				failed++
				s.logger.Warn("profile refresh failed",
					zap.String("username", r.Username),
					zap.Error(r.Error),
				)
				continue
			}
			synced++
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d profile refreshes failed", failed, len(results))
		}

		s.logger.Info("history refresh completed, lock held for cooldown",
			zap.Int("synced", synced),
			zap.Duration("cooldown", s.interval),
		)

		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, locker.ErrNotAcquired):
		s.logger.Debug("another instance is refreshing histories, skipping execution")
	case errors.Is(err, service.ErrHistoryUnavailable):
		s.logger.Debug("history source not configured, skipping execution")
	default:
		s.logger.Warn("history refresh failed, lock released for retry", zap.Error(err))
	}
}
