package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/prayer"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nThis is the output of the tmux status line binary.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	next, err := s.nextTiming()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, nextJSON{
			Prayer:    next.Prayer.String(),
			Name:      next.Name,
			Time:      next.Time,
			Remaining: prayer.FormatRemaining(prayer.Remaining(next, s.now)),
		})
	}

	fmt.Fprint(out, prayer.FormatOutput(next, s.now, flagFormat, s.layout))
	return nil
}

type nextJSON struct {
	Prayer    string    `json:"prayer"`
	Name      string    `json:"name"`
	Time      time.Time `json:"time"`
	Remaining string    `json:"remaining"`
}

// nextTiming returns the next tracked prayer after the session instant:
// the first selected prayer still ahead today, or tomorrow's first.
func (s *session) nextTiming() (prayer.Timing, error) {
	today, err := s.scheduleAt(s.now)
	if err != nil {
		return prayer.Timing{}, err
	}
	if next, ok := today.NextSelected(s.now, s.selected); ok {
		return next, nil
	}

	// All of today's selected prayers have passed.
	tomorrow, err := s.schedule(today.Date.AddDays(1))
	if err != nil {
		return prayer.Timing{}, err
	}
	return tomorrow.Timings(s.selected)[0], nil
}
