package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/notify"
	"github.com/smokyabdulrahman/salah/internal/report"
)

var (
	flagWatch    bool
	flagQoS      int
	flagUsername string
	flagPassword string
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the current prayer state to MQTT",
		Long: "Publish the current and next prayer as a retained JSON message.\n" +
			"With --watch, keep running and publish again as each prayer begins.",
		Args: cobra.NoArgs,
		RunE: runPublish,
	}

	f := cmd.Flags()
	f.String("broker", "", "MQTT broker URL, e.g. tcp://localhost:1883 (overrides config)")
	f.String("topic", "", "MQTT topic (default salah/state)")
	f.IntVar(&flagQoS, "qos", 0, "MQTT quality of service: 0, 1 or 2")
	f.BoolVar(&flagWatch, "watch", false, "Keep publishing at each prayer time")
	f.StringVar(&flagUsername, "username", os.Getenv("SALAH_MQTT_USERNAME"), "MQTT username")
	f.StringVar(&flagPassword, "password", os.Getenv("SALAH_MQTT_PASSWORD"), "MQTT password")

	return cmd
}

// snapshot returns the state document at an instant.
func (s *session) snapshot(at time.Time) (report.State, error) {
	at = at.In(s.loc.Zone())
	sched, err := s.scheduleAt(at)
	if err != nil {
		return report.State{}, err
	}
	return report.NewState(sched, at, s.correction), nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	if flagQoS < 0 || flagQoS > 2 {
		return fmt.Errorf("invalid --qos %d: must be 0, 1 or 2", flagQoS)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if s.cfg.MQTTBroker == "" {
		return fmt.Errorf("no MQTT broker configured; use --broker or 'salah config set mqtt_broker tcp://host:1883'")
	}

	pub, err := notify.Dial(notify.Options{
		Broker:   s.cfg.MQTTBroker,
		Topic:    s.cfg.MQTTTopic,
		Username: flagUsername,
		Password: flagPassword,
		QoS:      byte(flagQoS),
	})
	if err != nil {
		return err
	}
	defer pub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagWatch {
		return pub.Watch(ctx, s.snapshot, time.Now)
	}

	st, err := s.snapshot(s.now)
	if err != nil {
		return err
	}
	if err := pub.Publish(ctx, st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %s, next %s at %s, to %s\n",
		st.Current, st.Next.Name, st.Next.Time.Format(s.layout), s.cfg.MQTTTopic)
	return nil
}
