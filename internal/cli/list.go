package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/report"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days starting today (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid number of days: %q (must be a positive integer)", args[0])
		}
		days = n
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	scheds := make([]*prayer.Schedule, days)
	for i := range scheds {
		if scheds[i], err = s.schedule(s.today().AddDays(i)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		doc := listJSON{Days: make([]report.Schedule, days)}
		for i, sched := range scheds {
			doc.Days[i] = report.NewSchedule(sched, s.selected, s.correction)
		}
		doc.Location = doc.Days[0].Location
		return printJSON(out, doc)
	}

	selected := s.selected
	if len(selected) == 0 {
		selected = prayer.AllPrayers
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Boldf("Prayer Times for %d Days", days))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.loc)
	fmt.Fprintln(out)

	headers := []string{"Date", "Hijri"}
	for _, p := range selected {
		headers = append(headers, p.String())
	}
	tbl := display.NewTable(headers)

	zone := s.loc.Zone()
	for _, sched := range scheds {
		row := []string{
			sched.Date.Midnight(zone).Format("Mon 02 Jan"),
			s.hijri(sched.Date).String(),
		}
		for _, t := range sched.Timings(selected) {
			row = append(row, t.Time.Format(s.layout))
		}
		tbl.AddRow(row...)
	}
	// The first row is today.
	tbl.SetHighlightRow(0)

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// listJSON is the JSON structure for the list command.
type listJSON struct {
	Location report.Location   `json:"location"`
	Days     []report.Schedule `json:"days"`
}
