// Package prayer computes daily prayer schedules and tracks which prayer is
// in effect at a given instant.
package prayer

import (
	"fmt"
	"math"
	"time"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/solar"
)

// Zenith angle of the sun at sunrise and sunset, including refraction and
// the solar radius.
const horizonAngle = 90.83333

// Schedule is the set of prayer times for one date at one location under
// one configuration. Times are absolute instants in the location's zone.
type Schedule struct {
	Date     calendar.Date
	Location Location
	Config   method.Config

	Fajr         time.Time
	Sherook      time.Time
	Dohr         time.Time
	Asr          time.Time
	Maghreb      time.Time
	Ishaa        time.Time
	FajrTomorrow time.Time

	FirstThird time.Time
	Midnight   time.Time
	LastThird  time.Time

	// Adjusted is set when a high-latitude rule replaced a time the sun
	// does not reach on this date.
	Adjusted bool
}

// nearestLatitude is the latitude used for the whole day when the sun
// does not rise, set or reach the Asr angle at the location.
const nearestLatitude = 60

// Compute returns the schedule for date at loc under cfg. It fails with
// ErrInvalidTime only when the date is not a valid calendar date.
//
// Where the sun does not sink far enough for Fajr or Ishaa, as in summer
// at European latitudes, each is placed a fraction angle/60 of the night
// before sunrise or after sunset. Where it does not rise, set or reach the
// Asr angle at all, the day is computed at 60° latitude on the same side
// of the equator.
func Compute(date calendar.Date, loc Location, cfg method.Config) (*Schedule, error) {
	if _, err := calendar.NewDate(date.Year, date.Month, date.Day); err != nil {
		return nil, err
	}

	b := build(date, loc, cfg)
	next := build(date.AddDays(1), loc, cfg)

	s := &Schedule{Date: date, Location: loc, Config: cfg, Adjusted: b.adjusted}
	zone := loc.Zone()
	fields := []struct {
		name  string
		date  calendar.Date
		hours float32
		dst   *time.Time
	}{
		{"Fajr", date, b.fajr, &s.Fajr},
		{"Sherook", date, b.sherook, &s.Sherook},
		{"Dohr", date, b.dohr, &s.Dohr},
		{"Asr", date, b.asr, &s.Asr},
		{"Maghreb", date, b.maghreb, &s.Maghreb},
		{"Ishaa", date, b.ishaa, &s.Ishaa},
		{"Fajr", next.date, next.fajr, &s.FajrTomorrow},
		{"first third", date, b.firstThird, &s.FirstThird},
		{"midnight", date, b.midnight, &s.Midnight},
		{"last third", date, b.lastThird, &s.LastThird},
	}
	for _, f := range fields {
		t, err := hoursToTime(f.date, f.hours, cfg.SummerTime, zone)
		if err != nil {
			return nil, fmt.Errorf("%s on %s at %s: %w", f.name, f.date, loc, err)
		}
		*f.dst = t
	}
	return s, nil
}

// builder accumulates one day's times in dependency order. Dohr comes
// first; every other time is an offset from it.
type builder struct {
	date     calendar.Date
	loc      Location
	cfg      method.Config
	latitude float32
	adjusted bool

	jd          float32
	declination float32

	dohr, asr, maghreb, ishaa, fajr, sherook float32
	firstThird, midnight, lastThird          float32
}

func newBuilder(date calendar.Date, loc Location, cfg method.Config) *builder {
	jd := calendar.GregorianToJulianDay(date)
	return &builder{
		date:        date,
		loc:         loc,
		cfg:         cfg,
		latitude:    loc.Latitude,
		jd:          jd,
		declination: solar.SunDeclination(jd),
	}
}

// build computes every time of one day, applying the high-latitude rules
// described on Compute.
func build(date calendar.Date, loc Location, cfg method.Config) *builder {
	b := newBuilder(date, loc, cfg)
	b.computeDay()
	if !finite(b.sherook) || !finite(b.maghreb) || !finite(b.asr) {
		b = newBuilder(date, loc, cfg)
		b.latitude = float32(math.Copysign(nearestLatitude, float64(loc.Latitude)))
		b.adjusted = true
		b.computeDay()
	}
	b.applyNightFraction()
	b.computeNight()
	return b
}

func (b *builder) computeDay() {
	b.computeDohr()
	b.computeAsr()
	b.computeMaghreb()
	b.computeIshaa()
	b.computeFajr()
	b.computeSherook()
}

// applyNightFraction places an unreachable Fajr or Ishaa angle/60 of the
// night, sunset to the next sunrise, away from sunrise or sunset.
func (b *builder) applyNightFraction() {
	night := 24 - (b.maghreb - b.sherook)
	if !finite(b.fajr) {
		b.fajr = b.sherook - night*b.cfg.FajrAngle/60
		b.adjusted = true
	}
	if !finite(b.ishaa) {
		b.ishaa = b.maghreb + night*b.cfg.IshaaAngle/60
		b.adjusted = true
	}
}

func finite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

func (b *builder) hoursFromNoon(angle float32) float32 {
	return solar.TimeForAngle(angle, b.latitude, b.declination)
}

func (b *builder) computeDohr() {
	longitudeCorrection := (float32(b.loc.UTCOffset)*15 - b.loc.Longitude) / 15
	b.dohr = 12 + longitudeCorrection + solar.EquationOfTime(b.jd)/60
}

func (b *builder) computeAsr() {
	angle := solar.AsrAngle(b.latitude, b.declination, b.cfg.Madhab.Coefficient())
	b.asr = b.dohr + b.hoursFromNoon(angle)
}

func (b *builder) computeMaghreb() {
	b.maghreb = b.dohr + b.hoursFromNoon(horizonAngle)
}

func (b *builder) computeIshaa() {
	if interval := b.cfg.IshaInterval; interval.Set() {
		ramadan := calendar.HijriFromGregorian(b.date, 0).IsRamadan()
		b.ishaa = b.maghreb + interval.For(ramadan)/60
		return
	}
	b.ishaa = b.dohr + b.hoursFromNoon(b.cfg.IshaaAngle+90)
}

func (b *builder) computeFajr() {
	b.fajr = b.dohr - b.hoursFromNoon(b.cfg.FajrAngle+90)
}

func (b *builder) computeSherook() {
	b.sherook = b.dohr - b.hoursFromNoon(horizonAngle)
}

func (b *builder) computeNight() {
	night := 24 - (b.maghreb - b.fajr)
	b.firstThird = b.maghreb + night/3
	b.midnight = b.maghreb + night/2
	b.lastThird = b.maghreb + 2*night/3
}

// hoursToTime converts fractional hours on date to a clock time. The hour
// is floor(hours) mod 24, shifted by one for summer time; hours past 24 or
// below 0 move to the adjacent date.
func hoursToTime(date calendar.Date, hours float32, summer bool, zone *time.Location) (time.Time, error) {
	if !finite(hours) {
		return time.Time{}, fmt.Errorf("%w: %v hours", ErrInvalidTime, hours)
	}

	minutes := (hours - solar.Floor32(hours)) * 60
	seconds := (minutes - solar.Floor32(minutes)) * 60

	if summer {
		hours++
	}
	whole := int(solar.Floor32(hours))
	days := int(math.Floor(float64(whole) / 24))
	hour := whole - days*24

	d := date.AddDays(days)
	return time.Date(d.Year, d.Month, d.Day, hour, int(minutes), int(seconds), 0, zone), nil
}
