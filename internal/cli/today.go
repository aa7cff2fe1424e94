package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/report"
)

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	sched, err := s.scheduleAt(s.now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, todayJSON{
			Schedule: report.NewSchedule(sched, s.selected, s.correction),
			State:    report.NewState(sched, s.now, s.correction),
		})
	}

	printTodayRich(out, s, sched)
	return nil
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Schedule report.Schedule `json:"schedule"`
	State    report.State    `json:"state"`
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(out io.Writer, s *session, sched *prayer.Schedule) {
	zone := s.loc.Zone()
	hijri := s.hijri(sched.Date)
	state := sched.State(s.now)
	remaining := formatState(state)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  %s\n", s.loc)
	fmt.Fprintf(out, "  %s, %s\n", s.engine.Method, s.engine.Madhab)
	fmt.Fprintf(out, "  %s\n", sched.Date.Midnight(zone).Format("Monday 02 January 2006"))

	hijriStr := fmt.Sprintf("%s (%s)", hijri, hijri.MonthNameArabic())
	if hijri.IsRamadan() {
		hijriStr += "  " + display.Green("Ramadan Mubarak")
	}
	fmt.Fprintf(out, "  %s\n", hijriStr)
	fmt.Fprintln(out)

	timings := sched.Timings(s.selected)
	if state.Next == prayer.FajrTomorrow {
		timings = append(timings, sched.Timings([]prayer.Prayer{prayer.FajrTomorrow})...)
	}

	maxNameLen := 0
	for _, t := range timings {
		maxNameLen = max(maxNameLen, utf8.RuneCountInString(timingLabel(t)))
	}

	for _, t := range timings {
		line := fmt.Sprintf("  %s  %s", padRight(timingLabel(t), maxNameLen), t.Time.Format(s.layout))

		switch {
		case t.Prayer == state.Current && !s.now.Before(t.Time):
			// Current prayer: dimmed.
			fmt.Fprintln(out, display.Dim(line))
		case t.Prayer == state.Next:
			// Next prayer: accent color + countdown.
			fmt.Fprintln(out, display.Accent(line)+display.Accent("  <- next in "+remaining))
		default:
			fmt.Fprintln(out, line)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Gray(fmt.Sprintf("First third %s   Midnight %s   Last third %s",
		sched.FirstThird.Format(s.layout), sched.Midnight.Format(s.layout), sched.LastThird.Format(s.layout))))
	if sched.Adjusted {
		fmt.Fprintf(out, "  %s\n", display.Yellow("Adjusted for high latitude"))
	}
	fmt.Fprintln(out)
}

// timingLabel is the row label of a timing; tomorrow's Fajr is marked.
func timingLabel(t prayer.Timing) string {
	if t.Prayer == prayer.FajrTomorrow {
		return t.Name + " (tomorrow)"
	}
	return t.Name
}

// formatState formats the remaining time of a state snapshot.
func formatState(st prayer.State) string {
	return prayer.FormatRemaining(time.Duration(st.Hours)*time.Hour + time.Duration(st.Minutes)*time.Minute)
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
