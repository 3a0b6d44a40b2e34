package state_manager

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type Sweeper struct {
	scheduler gocron.Scheduler
}

// StartSweeper periodically drops memory records idle for longer than ttl.
func StartSweeper(storage *MemoryStorage, ttl, interval time.Duration, logger *zap.Logger) (*Sweeper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if removed := storage.Sweep(time.Now().Add(-ttl)); removed > 0 {
				logger.Info("Dropped stale conversation records",
					zap.Int("removed", removed),
					zap.Duration("ttl", ttl))
			}
		}),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("add sweep job: %w", err)
	}

	s.Start()
	logger.Info("State sweeper started", zap.Duration("interval", interval), zap.Duration("ttl", ttl))
	return &Sweeper{scheduler: s}, nil
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
