// Package report defines the JSON documents printed by --json, served over
// HTTP and published over MQTT.
package report

import (
	"time"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// Hijri is a Hijri date with its month names.
type Hijri struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Day          int    `json:"day"`
	MonthEnglish string `json:"month_en"`
	MonthArabic  string `json:"month_ar"`
	Formatted    string `json:"formatted"`
	Ramadan      bool   `json:"ramadan,omitempty"`
}

// NewHijri builds the document for h.
func NewHijri(h calendar.HijriDate) Hijri {
	return Hijri{
		Year:         h.Year(),
		Month:        h.Month(),
		Day:          h.Day(),
		MonthEnglish: h.MonthNameEnglish(),
		MonthArabic:  h.MonthNameArabic(),
		Formatted:    h.String(),
		Ramadan:      h.IsRamadan(),
	}
}

// Location mirrors prayer.Location.
type Location struct {
	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`
	UTCOffset int     `json:"utc_offset"`
}

// Timing is one prayer time.
type Timing struct {
	Prayer string    `json:"prayer"`
	Name   string    `json:"name"`
	Time   time.Time `json:"time"`
}

// Night holds the night division markers.
type Night struct {
	FirstThird time.Time `json:"first_third"`
	Midnight   time.Time `json:"midnight"`
	LastThird  time.Time `json:"last_third"`
}

// Schedule is the document for one day.
type Schedule struct {
	Date         string    `json:"date"`
	Weekday      string    `json:"weekday"`
	Hijri        Hijri     `json:"hijri"`
	Location     Location  `json:"location"`
	Method       string    `json:"method"`
	Madhab       string    `json:"madhab"`
	SummerTime   bool      `json:"summer_time"`
	Timings      []Timing  `json:"timings"`
	FajrTomorrow time.Time `json:"fajr_tomorrow"`
	Night        Night     `json:"night"`
	Adjusted     bool      `json:"high_latitude_adjusted,omitempty"`
}

// NewSchedule builds the document for s, listing the selected prayers
// (all six when selected is empty).
func NewSchedule(s *prayer.Schedule, selected []prayer.Prayer, hijriCorrection int) Schedule {
	timings := s.Timings(selected)
	out := Schedule{
		Date:    s.Date.String(),
		Weekday: s.Date.Weekday().String(),
		Hijri:   NewHijri(calendar.HijriFromGregorian(s.Date, hijriCorrection)),
		Location: Location{
			Latitude:  s.Location.Latitude,
			Longitude: s.Location.Longitude,
			UTCOffset: s.Location.UTCOffset,
		},
		Method:       s.Config.Method.Slug(),
		Madhab:       s.Config.Madhab.String(),
		SummerTime:   s.Config.SummerTime,
		Timings:      make([]Timing, len(timings)),
		FajrTomorrow: s.FajrTomorrow,
		Night: Night{
			FirstThird: s.FirstThird,
			Midnight:   s.Midnight,
			LastThird:  s.LastThird,
		},
		Adjusted: s.Adjusted,
	}
	for i, t := range timings {
		out.Timings[i] = NewTiming(t)
	}
	return out
}

// NewTiming builds the document for t.
func NewTiming(t prayer.Timing) Timing {
	return Timing{Prayer: t.Prayer.String(), Name: t.Name, Time: t.Time}
}

// State is the document for one instant.
type State struct {
	At        time.Time `json:"at"`
	Current   string    `json:"current"`
	Next      Timing    `json:"next"`
	Hours     int       `json:"remaining_hours"`
	Minutes   int       `json:"remaining_minutes"`
	Remaining string    `json:"remaining"`
	Date      string    `json:"date"`
	Hijri     Hijri     `json:"hijri"`
}

// NewState evaluates s at t.
func NewState(s *prayer.Schedule, t time.Time, hijriCorrection int) State {
	st := s.State(t)
	current := st.Current.Name(s.Date.Weekday())
	return State{
		At:        st.At,
		Current:   current,
		Next:      NewTiming(s.NextTiming(t)),
		Hours:     st.Hours,
		Minutes:   st.Minutes,
		Remaining: prayer.FormatRemaining(time.Duration(st.Hours)*time.Hour + time.Duration(st.Minutes)*time.Minute),
		Date:      s.Date.String(),
		Hijri:     NewHijri(calendar.HijriFromGregorian(s.Date, hijriCorrection)),
	}
}
