package cache

import (
	"fmt"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// Schedules memoises computed schedules keyed by date, location and config.
// It is safe for concurrent use.
type Schedules struct {
	cache *otter.Cache[string, *prayer.Schedule]
}

// NewSchedules returns a memo holding at most size schedules, each for at
// most ttl after it was computed.
func NewSchedules(size int, ttl time.Duration) *Schedules {
	return &Schedules{
		cache: otter.Must(&otter.Options[string, *prayer.Schedule]{
			MaximumSize:      size,
			ExpiryCalculator: otter.ExpiryWriting[string, *prayer.Schedule](ttl),
		}),
	}
}

func scheduleKey(date calendar.Date, loc prayer.Location, cfg method.Config) string {
	return fmt.Sprintf("%s|%.6f|%.6f|%d|%s", date, loc.Latitude, loc.Longitude, loc.UTCOffset, cfg.CacheKey())
}

// Get returns the schedule for the inputs, computing and storing it on a
// miss. Errors are not cached.
func (s *Schedules) Get(date calendar.Date, loc prayer.Location, cfg method.Config) (*prayer.Schedule, error) {
	key := scheduleKey(date, loc, cfg)
	if sched, ok := s.cache.GetIfPresent(key); ok {
		return sched, nil
	}

	sched, err := prayer.Compute(date, loc, cfg)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, sched)
	return sched, nil
}

// Len returns the approximate number of cached schedules.
func (s *Schedules) Len() int {
	return s.cache.EstimatedSize()
}
