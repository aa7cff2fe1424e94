package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/report"
)

var flagFromHijri string

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri [date]",
		Short: "Convert between Gregorian and Hijri dates",
		Long: "Print the Hijri date of a Gregorian date (default: today), or with --from-hijri\n" +
			"the Gregorian date of a Hijri one. Dates are YYYY-MM-DD.",
		Args: cobra.MaximumNArgs(1),
		RunE: runHijri,
	}

	cmd.Flags().StringVar(&flagFromHijri, "from-hijri", "", "Convert this Hijri date (YYYY-MM-DD) to Gregorian")

	return cmd
}

// hijriJSON is the JSON structure for the hijri command.
type hijriJSON struct {
	Gregorian string       `json:"gregorian"`
	Weekday   string       `json:"weekday"`
	Hijri     report.Hijri `json:"hijri"`
}

func runHijri(cmd *cobra.Command, args []string) error {
	if flagFromHijri != "" && len(args) > 0 {
		return fmt.Errorf("give either a Gregorian date or --from-hijri, not both")
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	var (
		greg  calendar.Date
		hijri calendar.HijriDate
	)
	switch {
	case flagFromHijri != "":
		if hijri, err = calendar.ParseHijriDate(flagFromHijri); err != nil {
			return err
		}
		if greg, err = hijri.ToGregorian(); err != nil {
			return fmt.Errorf("cannot convert %s: %w", hijri, err)
		}
	case len(args) > 0:
		if greg, err = calendar.ParseDate(args[0]); err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
		}
		hijri = calendar.HijriFromGregorian(greg, cfg.HijriCorrectionOrDefault(0))
	default:
		now, err := resolveNow(FlagAt, time.Local)
		if err != nil {
			return err
		}
		greg = calendar.DateOf(now)
		hijri = calendar.HijriFromGregorian(greg, cfg.HijriCorrectionOrDefault(0))
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printJSON(out, hijriJSON{
			Gregorian: greg.String(),
			Weekday:   greg.Weekday().String(),
			Hijri:     report.NewHijri(hijri),
		})
	}

	fmt.Fprintf(out, "  %-10s %s (%s)\n", "Gregorian", greg, greg.Weekday())
	fmt.Fprintf(out, "  %-10s %s\n", "Hijri", display.Bold(hijri.String()))
	fmt.Fprintf(out, "  %-10s %d %s %d\n", "Arabic", hijri.Day(), hijri.MonthNameArabic(), hijri.Year())
	if hijri.IsRamadan() {
		fmt.Fprintf(out, "  %s\n", display.Green("Ramadan Mubarak"))
	}
	return nil
}
