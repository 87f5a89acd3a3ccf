// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Sweepable forgets entries idle longer than the given window
type Sweepable interface {
	Sweep(idle time.Duration) int
}

// Target is one named store the sweeper evicts from
type Target struct {
	Name  string
	Store Sweepable
}

// Sweeper evicts idle feed sessions and seeds, which ends their viewing session
type Sweeper struct {
	scheduler *gocron.Scheduler
	idle      time.Duration
	every     time.Duration
	targets   []Target
	logger    *zap.Logger
}

// NewSweeper creates a sweeper that checks every minute
func NewSweeper(idle time.Duration, logger *zap.Logger, targets ...Target) *Sweeper {
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		idle:      idle,
		every:     time.Minute,
		targets:   targets,
		logger:    logger,
	}
}

// Start schedules the sweep and runs it in the background
func (s *Sweeper) Start() error {
	if _, err := s.scheduler.Every(s.every).Do(s.Sweep); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduled sweep
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Sweep runs one eviction pass and returns the number of entries removed
func (s *Sweeper) Sweep() int {
	total := 0
	for _, t := range s.targets {
		n := t.Store.Sweep(s.idle)
		if n > 0 {
			s.logger.Info("Swept idle entries", zap.String("target", t.Name), zap.Int("removed", n))
		}
		total += n
	}
	return total
}
