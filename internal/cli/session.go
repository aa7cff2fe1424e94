package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// detectLocation looks the caller up by IP. Replaced in tests.
var detectLocation = func(ctx context.Context) (*geo.Location, error) {
	return geo.NewDetector(nil).Detect(ctx)
}

// schedules memoises computed days across a command, so list and the
// long-running commands never compute the same day twice.
var schedules = cache.NewSchedules(256, 24*time.Hour)

// session is the resolved input of one command run.
type session struct {
	cfg        *config.Config
	engine     method.Config
	loc        prayer.Location
	now        time.Time // in loc's zone
	selected   []prayer.Prayer
	layout     string
	correction int
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}
	engine, err := cfg.Engine()
	if err != nil {
		return nil, err
	}
	selected, err := cfg.PrayerList()
	if err != nil {
		return nil, err
	}
	loc, err := resolveLocation(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	now, err := resolveNow(FlagAt, loc.Zone())
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:        cfg,
		engine:     engine,
		loc:        loc,
		now:        now,
		selected:   selected,
		layout:     timeLayout(cfg.TimeFormat),
		correction: cfg.HijriCorrectionOrDefault(0),
	}, nil
}

// today is the civil date at the session instant.
func (s *session) today() calendar.Date {
	return s.loc.Today(s.now)
}

func (s *session) schedule(date calendar.Date) (*prayer.Schedule, error) {
	sched, err := schedules.Get(date, s.loc, s.engine)
	if err != nil {
		return nil, fmt.Errorf("cannot compute prayer times for %s at %s: %w", date, s.loc, err)
	}
	return sched, nil
}

// scheduleAt returns the schedule in effect at t: the one for t's date, or
// the next day's once t is past that schedule's last interval.
func (s *session) scheduleAt(t time.Time) (*prayer.Schedule, error) {
	sched, err := s.schedule(s.loc.Today(t))
	if err != nil || sched.Covers(t) {
		return sched, err
	}
	return s.schedule(sched.Date.AddDays(1))
}

// hijri returns the Hijri date of d with the configured correction.
func (s *session) hijri(d calendar.Date) calendar.HijriDate {
	return calendar.HijriFromGregorian(d, s.correction)
}

// resolveLocation determines the effective location.
// Priority: CLI flags > environment > config > cached geolocation > IP auto-detect.
func resolveLocation(ctx context.Context, cfg *config.Config) (prayer.Location, error) {
	switch {
	case cfg.Latitude != nil && cfg.Longitude != nil:
		if cfg.UTCOffset == nil {
			name, secs := time.Now().Zone()
			offset := wholeHourOffset(name, secs)
			log.Debug().Int("utc_offset", offset).Msg("no UTC offset configured, using the system zone")
			cfg.UTCOffset = &offset
		}
		loc, _, err := cfg.Location()
		return loc, err
	case cfg.Latitude != nil || cfg.Longitude != nil:
		return prayer.Location{}, errors.New("latitude and longitude must be given together")
	}

	detected, err := cachedDetect(ctx, cfg.CacheDir)
	if err != nil {
		return prayer.Location{}, err
	}
	if cfg.UTCOffset != nil {
		return prayer.NewLocation(detected.Latitude, detected.Longitude, *cfg.UTCOffset)
	}
	offset := wholeHourOffset(detected.Timezone, detected.Offset)
	return prayer.NewLocation(detected.Latitude, detected.Longitude, offset)
}

// cachedDetect returns the cached geolocation, detecting and caching it on
// a miss. Cache failures only disable caching.
func cachedDetect(ctx context.Context, dir string) (*geo.Location, error) {
	c, err := cache.New(dir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}

	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			log.Debug().Str("city", cached.City).Msg("using cached geolocation")
			return cached, nil
		}
	}

	detected, err := detectLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	log.Debug().Str("city", detected.City).Str("country", detected.Country).Msg("detected location")

	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			log.Warn().Err(err).Msg("failed to cache geolocation")
		}
	}
	return detected, nil
}

// wholeHourOffset rounds a zone offset to whole hours, warning when the
// zone keeps a fractional offset and every time will be off by the rest.
func wholeHourOffset(zone string, seconds int) int {
	hours, exact := prayer.OffsetHours(seconds)
	if !exact {
		log.Warn().Str("zone", zone).Int("offset_seconds", seconds).Int("utc_offset", hours).
			Msg("zone offset is not a whole number of hours; times use the rounded offset, set utc_offset to override")
	}
	return hours
}

var atLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05"}

// resolveNow returns the instant the command evaluates, in zone: the --at
// value when given, otherwise the wall clock.
func resolveNow(raw string, zone *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Now().In(zone), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(zone), nil
	}
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, raw, zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at %q: use RFC 3339 or \"YYYY-MM-DD HH:MM\"", raw)
}

// timeLayout maps the time_format setting to a Go layout.
func timeLayout(format string) string {
	if format == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
