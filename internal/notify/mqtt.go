package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// TopicFor is the per-user topic reminder devices subscribe to.
func TopicFor(userID int) string {
	return fmt.Sprintf("users/%d/doses", userID)
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// Connect dials the broker and returns a connected client.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	log.Info().Str("broker", brokerURL).Msg("MQTT client initialized")
	return client, nil
}

// MQTT publishes events as JSON at QoS 1.
type MQTT struct {
	client  mqtt.Client
	timeout time.Duration
}

var _ Notifier = (*MQTT)(nil)

func NewMQTT(client mqtt.Client) *MQTT {
	return &MQTT{client: client, timeout: 5 * time.Second}
}

func (m *MQTT) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	topic := TopicFor(ev.UserID)
	token := m.client.Publish(topic, 1, false, payload)

	wait := m.timeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < wait {
		wait = time.Until(dl)
	}
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("publish to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Str("type", string(ev.Type)).Msg("event published")
	return nil
}

// Close disconnects the client, allowing in-flight work 250ms.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
