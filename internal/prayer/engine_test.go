package prayer

import (
	"errors"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/method"
)

// jakarta is the location the reference schedules below were taken for.
func jakarta(t *testing.T) Location {
	t.Helper()
	loc, err := NewLocation(-6.18233995, 106.84287154, 7)
	if err != nil {
		t.Fatalf("NewLocation: %v", err)
	}
	return loc
}

func mustCompute(t *testing.T, date calendar.Date, loc Location, cfg method.Config) *Schedule {
	t.Helper()
	s, err := Compute(date, loc, cfg)
	if err != nil {
		t.Fatalf("Compute(%v): %v", date, err)
	}
	return s
}

// assertClock checks the wall-clock part of got against "HH:MM:SS" with a
// one second tolerance for single-precision rounding.
func assertClock(t *testing.T, name string, got time.Time, want string) {
	t.Helper()
	w, err := time.Parse("15:04:05", want)
	if err != nil {
		t.Fatalf("bad want %q: %v", want, err)
	}
	gotSec := got.Hour()*3600 + got.Minute()*60 + got.Second()
	wantSec := w.Hour()*3600 + w.Minute()*60 + w.Second()
	diff := gotSec - wantSec
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 && diff < 86399 {
		t.Errorf("%s = %s, want %s", name, got.Format("15:04:05"), want)
	}
}

// ---------------------------------------------------------------------------
// Reference schedules
// ---------------------------------------------------------------------------

func TestCompute_Singapore2023(t *testing.T) {
	loc, err := NewLocation(6.10, 106.49, 7)
	if err != nil {
		t.Fatal(err)
	}
	s := mustCompute(t, calendar.MustDate(2023, time.August, 30), loc, method.Singapore.Config())

	assertClock(t, "Fajr", s.Fajr, "04:29:10")
	assertClock(t, "Sherook", s.Sherook, "05:47:34")
	assertClock(t, "Dohr", s.Dohr, "11:54:50")
	assertClock(t, "Asr", s.Asr, "15:01:51")
	assertClock(t, "Maghreb", s.Maghreb, "18:02:06")
	assertClock(t, "Ishaa", s.Ishaa, "19:12:17")
	assertClock(t, "FirstThird", s.FirstThird, "21:31:08")
	assertClock(t, "Midnight", s.Midnight, "23:15:38")
	assertClock(t, "LastThird", s.LastThird, "01:00:09")
}

func TestCompute_JakartaMethods(t *testing.T) {
	date := calendar.MustDate(2021, time.April, 9)

	tests := []struct {
		name   string
		cfg    method.Config
		fields map[string]string
	}{
		{
			"singapore",
			method.Singapore.Config(),
			map[string]string{
				"Fajr": "04:36:34", "Sherook": "05:54:14", "Dohr": "11:54:14",
				"Asr": "15:12:14", "Maghreb": "17:54:14", "Ishaa": "19:03:49",
				"FirstThird": "21:28:21", "Midnight": "23:15:24", "LastThird": "01:02:28",
			},
		},
		{
			"umm al-qura",
			method.UmmAlQura.Config(),
			map[string]string{
				"Fajr": "04:42:39", "Ishaa": "19:24:14",
				"FirstThird": "21:30:22", "Midnight": "23:18:26", "LastThird": "01:06:30",
			},
		},
		{
			"fixed interval",
			method.FixedInterval.Config(),
			map[string]string{
				"Fajr": "04:38:36", "Ishaa": "19:24:14",
				"FirstThird": "21:29:01", "Midnight": "23:16:25", "LastThird": "01:03:49",
			},
		},
		{
			"singapore hanafi",
			method.Singapore.Config().WithMadhab(method.Hanafi),
			map[string]string{"Asr": "16:13:03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustCompute(t, date, jakarta(t), tt.cfg)
			got := map[string]time.Time{
				"Fajr": s.Fajr, "Sherook": s.Sherook, "Dohr": s.Dohr, "Asr": s.Asr,
				"Maghreb": s.Maghreb, "Ishaa": s.Ishaa, "FirstThird": s.FirstThird,
				"Midnight": s.Midnight, "LastThird": s.LastThird,
			}
			for name, want := range tt.fields {
				assertClock(t, name, got[name], want)
			}
		})
	}
}

func TestCompute_AnotherDay(t *testing.T) {
	s := mustCompute(t, calendar.MustDate(2021, time.April, 19), jakarta(t), method.Singapore.Config())

	assertClock(t, "Fajr", s.Fajr, "04:34:54")
	assertClock(t, "Sherook", s.Sherook, "05:53:19")
	assertClock(t, "Dohr", s.Dohr, "11:51:45")
	assertClock(t, "Asr", s.Asr, "15:11:51")
	assertClock(t, "Maghreb", s.Maghreb, "17:50:12")
	assertClock(t, "Ishaa", s.Ishaa, "19:00:27")
}

// ---------------------------------------------------------------------------
// Invariants
// ---------------------------------------------------------------------------

func TestCompute_Monotonic(t *testing.T) {
	locations := []struct {
		lat, lon float64
		offset   int
	}{
		{-6.18233995, 106.84287154, 7}, // Jakarta
		{21.4225, 39.8262, 3},          // Makkah
		{36.8065, 10.1815, 1},          // Tunis
		{40.7128, -74.0060, -5},        // New York
		{-33.8688, 151.2093, 10},       // Sydney
	}
	start := calendar.MustDate(2024, time.January, 1)

	for _, l := range locations {
		loc, err := NewLocation(l.lat, l.lon, l.offset)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range method.All() {
			for day := 0; day < 366; day += 11 {
				date := start.AddDays(day)
				s := mustCompute(t, date, loc, m.Method.Config())
				order := []time.Time{s.Fajr, s.Sherook, s.Dohr, s.Asr, s.Maghreb, s.Ishaa, s.FajrTomorrow}
				for i := 1; i < len(order); i++ {
					if !order[i-1].Before(order[i]) {
						t.Fatalf("%v %s %v: %v is not before %v",
							loc, m.Slug, date, AllPrayers[i-1], Prayer(i))
					}
				}
			}
		}
	}
}

func TestCompute_DatesAndZone(t *testing.T) {
	date := calendar.MustDate(2021, time.April, 9)
	s := mustCompute(t, date, jakarta(t), method.Singapore.Config())

	if calendar.DateOf(s.Fajr) != date || calendar.DateOf(s.Ishaa) != date {
		t.Errorf("prayers should fall on %v, got Fajr %v Ishaa %v", date, s.Fajr, s.Ishaa)
	}
	if calendar.DateOf(s.FajrTomorrow) != date.AddDays(1) {
		t.Errorf("FajrTomorrow = %v, want on %v", s.FajrTomorrow, date.AddDays(1))
	}
	if calendar.DateOf(s.LastThird) != date.AddDays(1) {
		t.Errorf("LastThird = %v, want after midnight", s.LastThird)
	}
	if _, off := s.Dohr.Zone(); off != 7*3600 {
		t.Errorf("zone offset = %d, want %d", off, 7*3600)
	}
	if !s.FirstThird.Before(s.Midnight) || !s.Midnight.Before(s.LastThird) || !s.LastThird.Before(s.FajrTomorrow) {
		t.Error("night divisions out of order")
	}
}

func TestCompute_SummerTimeShiftsByOneHour(t *testing.T) {
	date := calendar.MustDate(2021, time.April, 9)
	cfg := method.Singapore.Config()
	winter := mustCompute(t, date, jakarta(t), cfg)
	summer := mustCompute(t, date, jakarta(t), cfg.WithSummerTime(true))

	if d := summer.Asr.Sub(winter.Asr); d != time.Hour {
		t.Errorf("summer Asr - winter Asr = %v, want 1h", d)
	}
}

func TestCompute_RamadanInterval(t *testing.T) {
	loc, _ := NewLocation(21.4225, 39.8262, 3)
	cfg := method.UmmAlQura.Config()

	// 2024-03-20 is in Ramadan 1445, 2024-03-11 is the last day of Shaban.
	ramadan := mustCompute(t, calendar.MustDate(2024, time.March, 20), loc, cfg)
	shaban := mustCompute(t, calendar.MustDate(2024, time.March, 11), loc, cfg)

	if d := ramadan.Ishaa.Sub(ramadan.Maghreb); d < 119*time.Minute || d > 121*time.Minute {
		t.Errorf("Ramadan Ishaa - Maghreb = %v, want ~120m", d)
	}
	if d := shaban.Ishaa.Sub(shaban.Maghreb); d < 89*time.Minute || d > 91*time.Minute {
		t.Errorf("Shaban Ishaa - Maghreb = %v, want ~90m", d)
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestCompute_InvalidDate(t *testing.T) {
	_, err := Compute(calendar.Date{Year: 2023, Month: time.February, Day: 30}, jakarta(t), method.Default())
	if !errors.Is(err, ErrInvalidTime) {
		t.Errorf("Compute(2023-02-30) error = %v, want ErrInvalidTime", err)
	}
}

// ---------------------------------------------------------------------------
// High latitudes
// ---------------------------------------------------------------------------

func TestCompute_HighLatitude(t *testing.T) {
	locations := []struct {
		name     string
		lat, lon float64
		offset   int
	}{
		{"London", 51.5074, -0.1278, 1},
		{"Paris", 48.8566, 2.3522, 2},
		{"Tromso", 69.6492, 18.9553, 2},
		{"Longyearbyen", 78.2232, 15.6267, 1},
		{"McMurdo", -77.85, 166.67, 12},
	}
	methods := []method.Method{method.MuslimWorldLeague, method.Karachi, method.Egyptian, method.UmmAlQura}
	dates := []calendar.Date{
		calendar.MustDate(2024, time.March, 20),
		calendar.MustDate(2024, time.June, 21),
		calendar.MustDate(2024, time.September, 22),
		calendar.MustDate(2024, time.December, 21),
	}

	for _, l := range locations {
		loc, err := NewLocation(l.lat, l.lon, l.offset)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range methods {
			for _, madhab := range []method.Madhab{method.Shafi, method.Hanafi} {
				for _, date := range dates {
					s := mustCompute(t, date, loc, m.Config().WithMadhab(madhab))
					order := []time.Time{s.Fajr, s.Sherook, s.Dohr, s.Asr, s.Maghreb, s.Ishaa, s.FajrTomorrow}
					for i := 1; i < len(order); i++ {
						if !order[i-1].Before(order[i]) {
							t.Fatalf("%s %v %v %v: %v is not before %v",
								l.name, m, madhab, date, AllPrayers[i-1], Prayer(i))
						}
					}
				}
			}
		}
	}
}

func TestCompute_NightFractionForUnreachableTwilight(t *testing.T) {
	loc, _ := NewLocation(51.5074, -0.1278, 1) // London
	s := mustCompute(t, calendar.MustDate(2024, time.June, 21), loc, method.Default())

	if !s.Adjusted {
		t.Error("Adjusted = false, want true")
	}
	night := 24*time.Hour - s.Maghreb.Sub(s.Sherook)
	within := func(got, want time.Duration) bool {
		d := got - want
		return d > -3*time.Second && d < 3*time.Second
	}
	if got, want := s.Sherook.Sub(s.Fajr), night*18/60; !within(got, want) {
		t.Errorf("Sherook - Fajr = %v, want %v", got, want)
	}
	if got, want := s.Ishaa.Sub(s.Maghreb), night*17/60; !within(got, want) {
		t.Errorf("Ishaa - Maghreb = %v, want %v", got, want)
	}

	winter := mustCompute(t, calendar.MustDate(2024, time.December, 21), loc, method.Default())
	if winter.Adjusted {
		t.Error("London in December should not need adjusting")
	}
}

func TestCompute_PolarDayUsesNearestLatitude(t *testing.T) {
	date := calendar.MustDate(2024, time.June, 21)
	polar, _ := NewLocation(78.2232, 15.6267, 1) // Longyearbyen
	nearest, _ := NewLocation(60, 15.6267, 1)

	got := mustCompute(t, date, polar, method.Default())
	want := mustCompute(t, date, nearest, method.Default())

	if !got.Adjusted {
		t.Error("Adjusted = false, want true")
	}
	for _, p := range AllPrayers {
		if !got.TimeOf(p).Equal(want.TimeOf(p)) {
			t.Errorf("%v = %v, want the 60° time %v", p, got.TimeOf(p), want.TimeOf(p))
		}
	}
}

func TestCompute_NotAdjustedNearEquator(t *testing.T) {
	s := mustCompute(t, calendar.MustDate(2021, time.April, 9), jakarta(t), method.Singapore.Config())
	if s.Adjusted {
		t.Error("Jakarta should not need adjusting")
	}
}

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		offset   int
		wantErr  bool
	}{
		{"valid", 21.4225, 39.8262, 3, false},
		{"latitude too big", 91, 0, 0, true},
		{"longitude too small", 0, -181, 0, true},
		{"offset too big", 0, 0, 15, true},
		{"offset too small", 0, 0, -13, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(tt.lat, tt.lon, tt.offset)
			if tt.wantErr != (err != nil) {
				t.Fatalf("NewLocation error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error %v should wrap ErrInvalidArgument", err)
			}
		})
	}
}

func TestHoursToTime(t *testing.T) {
	date := calendar.MustDate(2021, time.April, 9)
	zone := time.UTC

	tests := []struct {
		name   string
		hours  float32
		summer bool
		want   time.Time
	}{
		{"noon", 12.5, false, time.Date(2021, 4, 9, 12, 30, 0, 0, zone)},
		{"summer", 12.5, true, time.Date(2021, 4, 9, 13, 30, 0, 0, zone)},
		{"past midnight", 25.25, false, time.Date(2021, 4, 10, 1, 15, 0, 0, zone)},
		{"summer wraps", 23.5, true, time.Date(2021, 4, 10, 0, 30, 0, 0, zone)},
		{"before midnight", -0.5, false, time.Date(2021, 4, 8, 23, 30, 0, 0, zone)},
	}

	for _, tt := range tests {
		got, err := hoursToTime(date, tt.hours, tt.summer, zone)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("%s: hoursToTime(%v) = %v, want %v", tt.name, tt.hours, got, tt.want)
		}
	}
}

func TestOffsetHours(t *testing.T) {
	tests := []struct {
		seconds   int
		wantHours int
		wantExact bool
	}{
		{0, 0, true},
		{7 * 3600, 7, true},
		{-5 * 3600, -5, true},
		{19800, 6, false},   // UTC+5:30
		{-12600, -4, false}, // UTC-3:30
		{20700, 6, false},   // UTC+5:45
	}
	for _, tt := range tests {
		hours, exact := OffsetHours(tt.seconds)
		if hours != tt.wantHours || exact != tt.wantExact {
			t.Errorf("OffsetHours(%d) = %d, %v, want %d, %v", tt.seconds, hours, exact, tt.wantHours, tt.wantExact)
		}
	}
}
