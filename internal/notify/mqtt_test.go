package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type recordingClient struct {
	mqtt.Client
	topic   string
	qos     byte
	payload []byte
	err     error
}

func (c *recordingClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.qos = qos
	c.payload = payload.([]byte)
	return doneToken{err: c.err}
}

func TestMQTT_Publish(t *testing.T) {
	client := &recordingClient{}
	n := NewMQTT(client)

	ev := Event{Type: EventDoseStatus, UserID: 7, DoseID: "m1-2025-03-10-0", Status: "taken"}
	require.NoError(t, n.Publish(context.Background(), ev))

	assert.Equal(t, "users/7/doses", client.topic)
	assert.Equal(t, byte(1), client.qos)

	var got Event
	require.NoError(t, json.Unmarshal(client.payload, &got))
	assert.Equal(t, ev.DoseID, got.DoseID)
	assert.Equal(t, EventDoseStatus, got.Type)
}

func TestMQTT_PublishError(t *testing.T) {
	client := &recordingClient{err: errors.New("not connected")}
	err := NewMQTT(client).Publish(context.Background(), Event{UserID: 1})
	assert.ErrorContains(t, err, "not connected")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}
