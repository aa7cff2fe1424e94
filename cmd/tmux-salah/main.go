// Command tmux-salah prints the next prayer on one line for a tmux status
// bar. It computes times locally and never needs the network once the
// location is known.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/method"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

// detect looks the caller up by IP. Replaced in tests.
var detect = func(ctx context.Context) (*geo.Location, error) {
	return geo.NewDetector(nil).Detect(ctx)
}

type options struct {
	latitude   float64
	longitude  float64
	utcOffset  int
	offsetSet  bool
	method     string
	madhab     string
	summerTime bool
	format     string
	timeFormat string
	prayers    string
	cacheDir   string
	at         string
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	fs := pflag.NewFlagSet("tmux-salah", pflag.ExitOnError)
	var opts options
	fs.Float64Var(&opts.latitude, "latitude", 0, "Latitude for prayer time calculation")
	fs.Float64Var(&opts.longitude, "longitude", 0, "Longitude for prayer time calculation")
	fs.IntVar(&opts.utcOffset, "utc-offset", 0, "UTC offset in whole hours (default: the system zone or the detected one)")
	fs.StringVar(&opts.method, "method", method.MuslimWorldLeague.Slug(), "Calculation method (see --list-methods)")
	fs.StringVar(&opts.madhab, "madhab", "shafi", "Asr madhab: shafi or hanafi")
	fs.BoolVar(&opts.summerTime, "summer-time", false, "Add one hour of daylight saving")
	fs.StringVar(&opts.format, "format", prayer.FormatNameAndTime, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}'). Template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes")
	fs.StringVar(&opts.timeFormat, "time-format", "24h", "Time format: 12h or 24h")
	fs.StringVar(&opts.prayers, "prayers", "", "Comma-separated list of prayers to track (default: all six)")
	fs.StringVar(&opts.cacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/salah/)")
	fs.StringVar(&opts.at, "at", "", "Evaluate at this RFC 3339 instant instead of now")
	showVersion := fs.Bool("version", false, "Print version and exit")
	listMethods := fs.Bool("list-methods", false, "Print supported calculation methods and exit")
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("tmux-salah %s\n", version)
		return
	}
	if *listMethods {
		printMethods(os.Stdout)
		return
	}

	opts.offsetSet = fs.Changed("utc-offset")
	if err := run(context.Background(), os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// printMethods prints the table of supported calculation methods.
func printMethods(w io.Writer) {
	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-16s %s\n", "Method", "Name")
	fmt.Fprintf(w, "  %-16s %s\n", "──────", "────")
	for _, m := range method.All() {
		fmt.Fprintf(w, "  %-16s %s\n", m.Slug, m.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <method> to select a calculation method.")
	fmt.Fprintf(w, "If omitted, %s is used.\n", method.MuslimWorldLeague)
}

func run(ctx context.Context, w io.Writer, opts options) error {
	var selected []prayer.Prayer
	if opts.prayers != "" {
		list, err := prayer.ParsePrayerList(opts.prayers)
		if err != nil {
			return err
		}
		selected = list
	}

	layout := "15:04"
	switch opts.timeFormat {
	case "24h":
	case "12h":
		layout = "3:04 PM"
	default:
		return fmt.Errorf("invalid time format %q: use 12h or 24h", opts.timeFormat)
	}

	m, err := method.ParseMethod(opts.method)
	if err != nil {
		return err
	}
	madhab, err := method.ParseMadhab(opts.madhab)
	if err != nil {
		return err
	}
	cfg := m.Config().WithMadhab(madhab).WithSummerTime(opts.summerTime)

	loc, err := resolveLocation(ctx, opts)
	if err != nil {
		return err
	}

	now := time.Now()
	if opts.at != "" {
		if now, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("invalid --at %q: use RFC 3339", opts.at)
		}
	}
	// Re-anchor now to the location's clock so the date lines up.
	now = now.In(loc.Zone())
	today := loc.Today(now)

	sched, err := prayer.Compute(today, loc, cfg)
	if err != nil {
		return err
	}
	next, ok := sched.NextSelected(now, selected)
	if !ok {
		tomorrow, err := prayer.Compute(today.AddDays(1), loc, cfg)
		if err != nil {
			return fmt.Errorf("failed to compute tomorrow's times: %w", err)
		}
		next = tomorrow.Timings(selected)[0]
	}

	fmt.Fprint(w, prayer.FormatOutput(next, now, opts.format, layout))
	return nil
}

// resolveLocation uses the coordinate flags when given, otherwise the
// cached or freshly detected location.
func resolveLocation(ctx context.Context, opts options) (prayer.Location, error) {
	if opts.latitude != 0 || opts.longitude != 0 {
		offset := opts.utcOffset
		if !opts.offsetSet {
			offset = wholeHourOffset(time.Now().Zone())
		}
		return prayer.NewLocation(opts.latitude, opts.longitude, offset)
	}

	c, err := cache.New(opts.cacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}

	var detected *geo.Location
	if c != nil {
		detected = c.LoadGeo()
	}
	if detected == nil {
		detected, err = detect(ctx)
		if err != nil {
			return prayer.Location{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}
		if c != nil {
			if err := c.SaveGeo(detected); err != nil {
				log.Warn().Err(err).Msg("failed to cache geolocation")
			}
		}
	}

	offset := opts.utcOffset
	if !opts.offsetSet {
		offset = wholeHourOffset(detected.Timezone, detected.Offset)
	}
	return prayer.NewLocation(detected.Latitude, detected.Longitude, offset)
}

func wholeHourOffset(zone string, seconds int) int {
	hours, exact := prayer.OffsetHours(seconds)
	if !exact {
		log.Warn().Str("zone", zone).Int("utc_offset", hours).Msg("zone offset is not a whole number of hours; use --utc-offset to override")
	}
	return hours
}
