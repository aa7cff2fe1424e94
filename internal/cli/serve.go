package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: "Run the JSON API: /v1/timings, /v1/current, /v1/hijri and /v1/methods.\n" +
			"A configured location becomes the default for requests without lat/lon.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("listen", "", "Listen address (default :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, addr, err := newServer(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, addr)
}

// newServer builds the HTTP server from the effective configuration.
func newServer(cmd *cobra.Command) (*server.Server, string, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	engine, err := cfg.Engine()
	if err != nil {
		return nil, "", err
	}

	defaults := server.Defaults{
		Config:          engine,
		HijriCorrection: cfg.HijriCorrectionOrDefault(0),
	}
	if cfg.Latitude != nil || cfg.Longitude != nil {
		loc, err := resolveLocation(cmd.Context(), cfg)
		if err != nil {
			return nil, "", err
		}
		defaults.Location = &loc
		log.Info().Stringer("location", loc).Msg("default location")
	}

	return server.New(server.Options{Defaults: defaults, Schedules: schedules}), cfg.Listen, nil
}
