package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/api"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/fetch"
)

var flagAPIURL string

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare today's times with the Al Adhan API",
		Long:  "Fetch today's timings for the same coordinates, method and madhab from the\nAl Adhan API and show how far the local computation is from them.",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}

	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "Al Adhan API base URL (default: https://api.aladhan.com/v1)")

	return cmd
}

type compareJSON struct {
	Prayer       string    `json:"prayer"`
	Local        time.Time `json:"local"`
	Remote       time.Time `json:"remote"`
	DeltaMinutes int       `json:"delta_minutes"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	id, ok := s.engine.Method.AlAdhanID()
	if !ok {
		return fmt.Errorf("method %s has no Al Adhan equivalent", s.engine.Method.Slug())
	}

	sched, err := s.schedule(s.today())
	if err != nil {
		return err
	}

	client := api.NewClient()
	if flagAPIURL != "" {
		client = api.NewClientWith(fetch.New(), flagAPIURL)
	}
	resp, err := client.FetchTimings(cmd.Context(), api.Query{
		Date:      sched.Date,
		Latitude:  float64(s.loc.Latitude),
		Longitude: float64(s.loc.Longitude),
		Method:    id,
		School:    s.engine.Madhab.AlAdhanSchool(),
	})
	if err != nil {
		return err
	}

	diffs, err := api.Compare(sched, resp)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		rows := make([]compareJSON, len(diffs))
		for i, d := range diffs {
			rows[i] = compareJSON{
				Prayer:       d.Prayer.String(),
				Local:        d.Local,
				Remote:       d.Remote,
				DeltaMinutes: int(d.Delta() / time.Minute),
			}
		}
		return printJSON(out, rows)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Boldf("%s vs Al Adhan (method %d)", sched.Date, id))
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Prayer", "Local", "Al Adhan", "Delta"})
	for _, d := range diffs {
		tbl.AddRow(d.Prayer.String(), d.Local.Format("15:04:05"), d.Remote.Format("15:04"), formatDelta(d.Delta()))
	}
	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// formatDelta renders a whole-minute difference, colored by size.
func formatDelta(d time.Duration) string {
	m := int(d / time.Minute)
	switch {
	case m == 0:
		return display.Green("0m")
	case m >= -1 && m <= 1:
		return display.Green(fmt.Sprintf("%+dm", m))
	default:
		return display.Yellow(fmt.Sprintf("%+dm", m))
	}
}
