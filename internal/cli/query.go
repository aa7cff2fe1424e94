package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: fajr, sherook, dohr, asr, maghreb, ishaa (and the usual spellings such as sunrise, dhuhr, maghrib, isha)",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// parseDays resolves the --days value.
func parseDays(raw string) (int, error) {
	switch raw {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", raw)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	p, err := prayer.ParsePrayer(args[0])
	if err != nil {
		return err
	}
	days, err := parseDays(flagQueryDays)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	rows := make([]queryJSONDay, days)
	for i := range rows {
		sched, err := s.schedule(s.today().AddDays(i))
		if err != nil {
			return err
		}
		t := sched.Timings([]prayer.Prayer{p})[0]
		rows[i] = queryJSONDay{
			Date:  sched.Date.String(),
			Hijri: s.hijri(sched.Date).String(),
			Name:  t.Name,
			Time:  t.Time,
			label: sched.Date.Midnight(s.loc.Zone()).Format("Mon 02 Jan"),
		}
	}

	out := cmd.OutOrStdout()

	// Single day: one line.
	if days == 1 {
		if FlagJSON {
			return printJSON(out, queryJSONSingle{Prayer: p.String(), queryJSONDay: rows[0]})
		}
		fmt.Fprintf(out, "%s %s\n", rows[0].Name, rows[0].Time.Format(s.layout))
		return nil
	}

	if FlagJSON {
		return printJSON(out, queryJSONMulti{Prayer: p.String(), Days: rows})
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Boldf("%s Times for %d Days", p, days))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.loc)
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", "Hijri", p.String()})
	for _, r := range rows {
		value := r.Time.Format(s.layout)
		if r.Name != p.String() {
			value += " (" + r.Name + ")"
		}
		tbl.AddRow(r.label, r.Hijri, value)
	}
	tbl.SetHighlightRow(0)

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSONDay struct {
	Date  string    `json:"date"`
	Hijri string    `json:"hijri"`
	Name  string    `json:"name"`
	Time  time.Time `json:"time"`
	label string
}

type queryJSONSingle struct {
	Prayer string `json:"prayer"`
	queryJSONDay
}

type queryJSONMulti struct {
	Prayer string         `json:"prayer"`
	Days   []queryJSONDay `json:"days"`
}
