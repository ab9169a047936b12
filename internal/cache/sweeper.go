package cache

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SweepRecorder receives the number of entries each sweep removed.
type SweepRecorder interface {
	CacheSwept(n int)
}

// Sweeper runs MemoryStore.Sweep on a cron schedule.
type Sweeper struct {
	cron *cron.Cron
}

// StartSweeper schedules sweeps of store. The schedule is a standard 5-field
// cron expression or a descriptor such as "@every 1m".
func StartSweeper(store *MemoryStore, schedule string, logger *slog.Logger, rec SweepRecorder) (*Sweeper, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	_, err := c.AddFunc(schedule, func() {
		n := store.Sweep()
		if rec != nil {
			rec.CacheSwept(n)
		}
		if n > 0 && logger != nil {
			logger.Debug("cache sweep", "removed", n, "remaining", store.Len())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cache sweep schedule %q: %w", schedule, err)
	}

	c.Start()
	return &Sweeper{cron: c}, nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
