package api

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// Diff is the difference between a local and a remote prayer time.
type Diff struct {
	Prayer prayer.Prayer
	Local  time.Time
	Remote time.Time
}

// Delta is Local minus Remote, with Local truncated to the minute like
// the remote times.
func (d Diff) Delta() time.Duration {
	return d.Local.Truncate(time.Minute).Sub(d.Remote)
}

// Compare pairs each of the six daily times in s with the remote time in r.
func Compare(s *prayer.Schedule, r *Response) ([]Diff, error) {
	zone := s.Location.Zone()
	out := make([]Diff, 0, len(prayer.AllPrayers))
	for _, p := range prayer.AllPrayers {
		raw, _ := r.Data.Timings.For(p)
		remote, err := ParseClock(raw, s.Date, zone)
		if err != nil {
			return nil, fmt.Errorf("remote %s: %w", p, err)
		}
		out = append(out, Diff{Prayer: p, Local: s.TimeOf(p), Remote: remote})
	}
	return out, nil
}
