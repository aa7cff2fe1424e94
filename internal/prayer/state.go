package prayer

import (
	"math"
	"time"
)

type interval struct {
	prayer     Prayer
	start, end time.Time
}

// intervals partitions the day from Fajr to tomorrow's Fajr.
func (s *Schedule) intervals() [6]interval {
	return [6]interval{
		{Fajr, s.Fajr, s.Sherook},
		{Sherook, s.Sherook, s.Dohr},
		{Dohr, s.Dohr, s.Asr},
		{Asr, s.Asr, s.Maghreb},
		{Maghreb, s.Maghreb, s.Ishaa},
		{Ishaa, s.Ishaa, s.FajrTomorrow},
	}
}

// Current returns the prayer in effect at t. Before the day's Fajr the
// previous night's Ishaa is still in effect. From tomorrow's Fajr onwards
// the schedule no longer covers t and Fajr is reported.
func (s *Schedule) Current(t time.Time) Prayer {
	if t.Before(s.Fajr) {
		return Ishaa
	}
	for _, iv := range s.intervals() {
		if !t.Before(iv.start) && t.Before(iv.end) {
			return iv.prayer
		}
	}
	return Fajr
}

// Next returns the prayer that follows the one in effect at t. Ishaa is
// followed by this schedule's Fajr after midnight and by FajrTomorrow
// before it.
func (s *Schedule) Next(t time.Time) Prayer {
	switch cur := s.Current(t); {
	case cur == Ishaa && t.Before(s.Fajr):
		return Fajr
	case cur == Ishaa:
		return FajrTomorrow
	default:
		return cur + 1
	}
}

// TimeOf returns the time of p in the schedule.
func (s *Schedule) TimeOf(p Prayer) time.Time {
	switch p {
	case Fajr:
		return s.Fajr
	case Sherook:
		return s.Sherook
	case Dohr:
		return s.Dohr
	case Asr:
		return s.Asr
	case Maghreb:
		return s.Maghreb
	case Ishaa:
		return s.Ishaa
	case FajrTomorrow:
		return s.FajrTomorrow
	}
	return time.Time{}
}

// TimeRemaining returns the whole hours and rounded minutes from t until
// the next prayer. It never goes negative.
//
// FajrTomorrow already carries the following date, so no day is added.
func (s *Schedule) TimeRemaining(t time.Time) (hours, minutes int) {
	return splitRemaining(s.TimeOf(s.Next(t)).Sub(t))
}

func splitRemaining(d time.Duration) (hours, minutes int) {
	if d <= 0 {
		return 0, 0
	}
	hours = int(d / time.Hour)
	minutes = int(math.Round((d - time.Duration(hours)*time.Hour).Minutes()))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return hours, minutes
}

// Covers reports whether t falls before tomorrow's Fajr, the end of the
// last interval the schedule describes.
func (s *Schedule) Covers(t time.Time) bool {
	return t.Before(s.FajrTomorrow)
}

// State is a snapshot of the schedule at one instant.
type State struct {
	At       time.Time
	Current  Prayer
	Next     Prayer
	NextTime time.Time
	Hours    int
	Minutes  int
}

// State evaluates Current, Next and TimeRemaining against a single instant.
func (s *Schedule) State(t time.Time) State {
	next := s.Next(t)
	h, m := s.TimeRemaining(t)
	return State{
		At:       t,
		Current:  s.Current(t),
		Next:     next,
		NextTime: s.TimeOf(next),
		Hours:    h,
		Minutes:  m,
	}
}

// Timings returns the selected prayers in day order with their display
// names. An empty selection returns all six.
func (s *Schedule) Timings(selected []Prayer) []Timing {
	if len(selected) == 0 {
		selected = AllPrayers
	}
	selected = inDayOrder(selected)
	weekday := s.Date.Weekday()
	out := make([]Timing, 0, len(selected))
	for _, p := range selected {
		t := s.TimeOf(p)
		day := weekday
		if p == FajrTomorrow {
			day = s.Date.AddDays(1).Weekday()
		}
		out = append(out, Timing{Prayer: p, Name: p.Name(day), Time: t})
	}
	return out
}

// NextTiming returns the upcoming prayer at t as a Timing.
func (s *Schedule) NextTiming(t time.Time) Timing {
	return s.Timings([]Prayer{s.Next(t)})[0]
}

// NextSelected returns the first selected prayer after t. ok is false when
// every selected prayer of the day has passed. With no selection it is
// NextTiming, which always succeeds.
func (s *Schedule) NextSelected(t time.Time, selected []Prayer) (next Timing, ok bool) {
	if len(selected) == 0 {
		return s.NextTiming(t), true
	}
	for _, tm := range s.Timings(selected) {
		if tm.Time.After(t) {
			return tm, true
		}
	}
	return Timing{}, false
}
