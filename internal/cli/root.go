package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/display"
)

// Global flags shared across all subcommands.
var (
	FlagLatitude        float64
	FlagLongitude       float64
	FlagUTCOffset       int
	FlagMethod          string
	FlagMadhab          string
	FlagSummerTime      bool
	FlagHijriCorrection int
	FlagPrayers         string
	FlagJSON            bool
	FlagCacheDir        string
	FlagTimeFormat      string
	FlagAt              string
	FlagVerbose         bool
	FlagNoColor         bool
)

// loadedConfig holds the config file loaded during PersistentPreRunE.
var loadedConfig *config.Config

// envFile is the optional dotenv file read from the working directory.
const envFile = ".env"

// NewRootCmd creates the root command for the salah CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "salah",
		Short:   "Offline Islamic prayer times and Hijri calendar",
		Long:    "Compute Islamic prayer times and Hijri dates locally, without a network connection.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if FlagNoColor {
				display.SetEnabled(false)
			}
			setupLogging(cmd, FlagVerbose)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.IntVar(&FlagUTCOffset, "utc-offset", 0, "Override UTC offset in hours (default: the system zone)")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method (see 'salah methods')")
	pf.StringVar(&FlagMadhab, "madhab", "", "Asr madhab: shafi or hanafi")
	pf.BoolVar(&FlagSummerTime, "summer-time", false, "Shift all times one hour forward")
	pf.IntVar(&FlagHijriCorrection, "hijri-correction", 0, "Shift Hijri dates by -2 to 2 days")
	pf.StringVar(&FlagPrayers, "prayers", "", "Comma-separated list of prayers to show (overrides config)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/salah/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagAt, "at", "", "Evaluate at this instant instead of now (RFC 3339 or \"YYYY-MM-DD HH:MM\")")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Log debug output to stderr")
	pf.BoolVar(&FlagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPublishCmd())

	return rootCmd
}

func setupLogging(cmd *cobra.Command, verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.TimeOnly,
		NoColor:    !display.Enabled(),
	})
}

// flagBindings maps flags onto the config keys they override.
var flagBindings = []struct {
	flag string
	key  string
}{
	{"latitude", "latitude"},
	{"longitude", "longitude"},
	{"utc-offset", "utc_offset"},
	{"method", "method"},
	{"madhab", "madhab"},
	{"summer-time", "summer_time"},
	{"hijri-correction", "hijri_correction"},
	{"time-format", "time_format"},
	{"prayers", "prayers"},
	{"cache-dir", "cache_dir"},
	{"broker", "mqtt_broker"},
	{"topic", "mqtt_topic"},
	{"listen", "listen"},
}

// effectiveConfig returns the merged configuration, applying the priority
// CLI flags > environment > config file > defaults. It uses the flags'
// Changed state to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Defaults().Merge(loadedConfig)

	env, err := config.LoadEnv(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()
	for _, b := range flagBindings {
		f := changedFlag(flags, root, b.flag)
		if f == nil {
			continue
		}
		if err := cfg.Set(b.key, f.Value.String()); err != nil {
			return nil, fmt.Errorf("--%s: %w", b.flag, err)
		}
	}

	log.Debug().Interface("config", cfg).Msg("effective configuration")
	return &cfg, nil
}

// changedFlag returns the named flag if it was explicitly set on either the
// local or persistent flag set.
func changedFlag(local, persistent *pflag.FlagSet, name string) *pflag.Flag {
	if f := local.Lookup(name); f != nil && f.Changed {
		return f
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return f
	}
	return nil
}
