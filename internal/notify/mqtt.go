// Package notify publishes prayer state snapshots to an MQTT broker so
// that displays and home-automation systems can follow along.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salah/internal/report"
)

// Client is the part of mqtt.Client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
}

// Options configures a broker connection.
type Options struct {
	Broker   string // e.g. tcp://localhost:1883
	Topic    string
	ClientID string // generated when empty
	Username string
	Password string
	QoS      byte
	Timeout  time.Duration
}

// Publisher sends retained JSON state snapshots to one topic.
type Publisher struct {
	client  Client
	topic   string
	qos     byte
	timeout time.Duration
	closer  func()
}

// NewPublisher wraps an existing client.
func NewPublisher(c Client, topic string, qos byte) *Publisher {
	return &Publisher{client: c, topic: topic, qos: qos, timeout: 10 * time.Second}
}

// Dial connects to the broker described by opts.
func Dial(opts Options) (*Publisher, error) {
	if opts.Broker == "" {
		return nil, errors.New("mqtt broker is not configured")
	}
	if opts.Topic == "" {
		return nil, errors.New("mqtt topic is not configured")
	}
	if opts.ClientID == "" {
		opts.ClientID = "salah-" + uuid.New().String()[:8]
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	co := mqtt.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(opts.ClientID)
	co.SetUsername(opts.Username)
	co.SetPassword(opts.Password)
	co.SetConnectTimeout(opts.Timeout)
	co.SetAutoReconnect(true)
	co.OnConnect = func(mqtt.Client) {
		log.Debug().Str("broker", opts.Broker).Msg("connected to MQTT broker")
	}
	co.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", opts.Broker).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(co)
	token := client.Connect()
	if !token.WaitTimeout(opts.Timeout) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: timed out", opts.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", opts.Broker, err)
	}

	p := NewPublisher(client, opts.Topic, opts.QoS)
	p.timeout = opts.Timeout
	p.closer = func() { client.Disconnect(250) }
	return p, nil
}

// Payload encodes a snapshot.
func Payload(st report.State) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// Publish sends st as a retained message.
func (p *Publisher) Publish(ctx context.Context, st report.State) error {
	data, err := Payload(st)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, p.qos, true, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("failed to publish to %s: timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}

	log.Debug().Str("topic", p.topic).Str("current", st.Current).Str("next", st.Next.Name).Msg("published state")
	return nil
}

// Snapshot returns the state at an instant.
type Snapshot func(at time.Time) (report.State, error)

// Watch publishes the state at once and again each time the next prayer
// begins, until ctx is cancelled.
func (p *Publisher) Watch(ctx context.Context, snapshot Snapshot, now func() time.Time) error {
	for {
		st, err := snapshot(now())
		if err != nil {
			return err
		}
		if err := p.Publish(ctx, st); err != nil {
			return err
		}

		wait := st.Next.Time.Sub(now()) + time.Second
		if wait < time.Second {
			wait = time.Second
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// Close disconnects from the broker when the publisher owns the connection.
func (p *Publisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}
