package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// friday is the Jakarta schedule for Friday 2021-04-09 (25 Shaban 1442).
func friday(t *testing.T) *prayer.Schedule {
	t.Helper()
	loc, err := prayer.NewLocation(-6.18233995, 106.84287154, 7)
	if err != nil {
		t.Fatal(err)
	}
	s, err := prayer.Compute(calendar.MustDate(2021, time.April, 9), loc, method.Singapore.Config())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewSchedule(t *testing.T) {
	s := friday(t)
	doc := NewSchedule(s, nil, 0)

	if doc.Date != "2021-04-09" || doc.Weekday != "Friday" {
		t.Errorf("Date/Weekday = %q/%q", doc.Date, doc.Weekday)
	}
	if doc.Method != "singapore" || doc.Madhab != "shafi" || doc.SummerTime {
		t.Errorf("config fields = %q/%q/%v", doc.Method, doc.Madhab, doc.SummerTime)
	}
	if doc.Hijri.Formatted != "25 Shaban 1442" || doc.Hijri.MonthArabic != "شعبان" || doc.Hijri.Ramadan {
		t.Errorf("Hijri = %+v", doc.Hijri)
	}
	if doc.Location.UTCOffset != 7 {
		t.Errorf("Location = %+v", doc.Location)
	}
	if len(doc.Timings) != 6 {
		t.Fatalf("len(Timings) = %d, want 6", len(doc.Timings))
	}
	if got := doc.Timings[2]; got.Prayer != "Dohr" || got.Name != "Jumua" || !got.Time.Equal(s.Dohr) {
		t.Errorf("Timings[2] = %+v, want Dohr named Jumua", got)
	}
	if !doc.FajrTomorrow.Equal(s.FajrTomorrow) || !doc.Night.Midnight.Equal(s.Midnight) {
		t.Error("FajrTomorrow/Night not copied from the schedule")
	}
}

func TestNewSchedule_SelectionAndCorrection(t *testing.T) {
	doc := NewSchedule(friday(t), []prayer.Prayer{prayer.Fajr, prayer.Ishaa}, 1)

	if len(doc.Timings) != 2 || doc.Timings[0].Prayer != "Fajr" || doc.Timings[1].Prayer != "Ishaa" {
		t.Errorf("Timings = %+v", doc.Timings)
	}
	if doc.Hijri.Day != 26 {
		t.Errorf("Hijri.Day with correction 1 = %d, want 26", doc.Hijri.Day)
	}
}

func TestSchedule_JSON(t *testing.T) {
	data, err := json.Marshal(NewSchedule(friday(t), nil, 0))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	for _, want := range []string{
		`"date":"2021-04-09"`,
		`"month_en":"Shaban"`,
		`"name":"Jumua"`,
		`"utc_offset":7`,
		`"first_third":"2021-04-09T21:28:`,
		`+07:00"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON missing %s in %s", want, got)
		}
	}
	if strings.Contains(got, `"ramadan"`) {
		t.Error("ramadan should be omitted outside Ramadan")
	}
}

func TestNewState(t *testing.T) {
	s := friday(t)
	now := time.Date(2021, time.April, 9, 11, 0, 0, 0, s.Location.Zone())

	st := NewState(s, now, 0)

	if st.Current != "Sherook" {
		t.Errorf("Current = %q, want Sherook", st.Current)
	}
	if st.Next.Prayer != "Dohr" || st.Next.Name != "Jumua" {
		t.Errorf("Next = %+v, want Dohr named Jumua", st.Next)
	}
	if st.Hours != 0 || st.Minutes != 54 || st.Remaining != "54m" {
		t.Errorf("remaining = %dh %dm (%q), want 0h 54m", st.Hours, st.Minutes, st.Remaining)
	}
	if !st.At.Equal(now) || st.Date != "2021-04-09" {
		t.Errorf("At/Date = %v/%q", st.At, st.Date)
	}
}

func TestNewState_Night(t *testing.T) {
	s := friday(t)
	now := time.Date(2021, time.April, 9, 22, 0, 0, 0, s.Location.Zone())

	st := NewState(s, now, 0)
	if st.Current != "Ishaa" || st.Next.Prayer != "FajrTomorrow" || st.Next.Name != "Fajr" {
		t.Errorf("State = %+v", st)
	}
}
