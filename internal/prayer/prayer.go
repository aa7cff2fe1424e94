package prayer

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Prayer identifies one of the daily prayers or sunrise.
type Prayer int

const (
	Fajr Prayer = iota
	Sherook
	Dohr
	Asr
	Maghreb
	Ishaa
	// FajrTomorrow is the next day's Fajr, the successor of Ishaa before
	// midnight.
	FajrTomorrow
)

var prayerNames = [...]string{
	Fajr:         "Fajr",
	Sherook:      "Sherook",
	Dohr:         "Dohr",
	Asr:          "Asr",
	Maghreb:      "Maghreb",
	Ishaa:        "Ishaa",
	FajrTomorrow: "FajrTomorrow",
}

// AllPrayers lists the six daily events in chronological order.
var AllPrayers = []Prayer{Fajr, Sherook, Dohr, Asr, Maghreb, Ishaa}

// ShortNames maps prayers to single-character abbreviations.
var ShortNames = map[Prayer]string{
	Fajr:         "F",
	Sherook:      "S",
	Dohr:         "D",
	Asr:          "A",
	Maghreb:      "M",
	Ishaa:        "I",
	FajrTomorrow: "F",
}

// aliases lets users type the spellings other tools use.
var aliases = map[string]Prayer{
	"fajr":    Fajr,
	"sherook": Sherook,
	"sunrise": Sherook,
	"shuruq":  Sherook,
	"dohr":    Dohr,
	"dhuhr":   Dohr,
	"zuhr":    Dohr,
	"jumua":   Dohr,
	"asr":     Asr,
	"maghreb": Maghreb,
	"maghrib": Maghreb,
	"ishaa":   Ishaa,
	"isha":    Ishaa,
}

func (p Prayer) String() string {
	if p < Fajr || p > FajrTomorrow {
		return fmt.Sprintf("Prayer(%d)", int(p))
	}
	return prayerNames[p]
}

// Name returns the display name of p on the given weekday. Dohr is called
// Jumua on Fridays and tomorrow's Fajr is just Fajr.
func (p Prayer) Name(weekday time.Weekday) string {
	switch {
	case p == Dohr && weekday == time.Friday:
		return "Jumua"
	case p == FajrTomorrow:
		return prayerNames[Fajr]
	}
	return p.String()
}

// ParsePrayer resolves a prayer name case-insensitively, accepting common
// alternative spellings such as "Dhuhr" and "Isha".
func ParsePrayer(s string) (Prayer, error) {
	if p, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	names := make([]string, len(AllPrayers))
	for i, p := range AllPrayers {
		names[i] = p.String()
	}
	return 0, fmt.Errorf("unknown prayer %q; valid prayers: %s", s, strings.Join(names, ", "))
}

// ParsePrayerList parses a comma-separated list of prayer names. The result
// is in day order without duplicates, whatever order the names were given in.
func ParsePrayerList(s string) ([]Prayer, error) {
	var out []Prayer
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePrayer(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty prayer list %q", s)
	}
	return inDayOrder(out), nil
}

// inDayOrder returns a sorted, deduplicated copy of selected.
func inDayOrder(selected []Prayer) []Prayer {
	out := slices.Clone(selected)
	slices.Sort(out)
	return slices.Compact(out)
}

// Timing is a prayer with its resolved display name and time.
type Timing struct {
	Prayer Prayer
	Name   string
	Time   time.Time
}

// Remaining returns the duration from now until the timing.
func Remaining(t Timing, now time.Time) time.Duration {
	return t.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
