package playback

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// topics per device
func commandTopic(deviceID string) string { return fmt.Sprintf("minaret/%s/commands", deviceID) }
func eventTopic(deviceID string) string   { return fmt.Sprintf("minaret/%s/events", deviceID) }

type eventWaiter struct {
	deviceID string
	event    string
	ch       chan struct{}
}

// Broker owns the MQTT connection to the playback devices. Commands are
// published to minaret/<device>/commands; devices report back on
// minaret/<device>/events.
type Broker struct {
	client mqtt.Client

	mu      sync.RWMutex
	waiters []*eventWaiter
}

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// NewBroker connects to the MQTT broker and subscribes to all device
// event topics.
func NewBroker(brokerURL, clientName string) (*Broker, error) {
	b := &Broker{}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	b.client = mqtt.NewClient(opts)
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	if token := b.client.Subscribe("minaret/+/events", 1, b.onEvent); token.Wait() && token.Error() != nil {
		b.client.Disconnect(250)
		return nil, fmt.Errorf("failed to subscribe to device events: %v", token.Error())
	}

	log.Info().Msg("MQTT client initialized successfully")
	return b, nil
}

func (b *Broker) onEvent(client mqtt.Client, msg mqtt.Message) {
	var payload struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		log.Error().Err(err).Str("topic", msg.Topic()).Msg("unparseable device event")
		return
	}

	log.Debug().Str("topic", msg.Topic()).Str("event", payload.Event).Msg("device event")

	b.mu.Lock()
	remaining := b.waiters[:0]
	for _, w := range b.waiters {
		if msg.Topic() == eventTopic(w.deviceID) && payload.Event == w.event {
			close(w.ch)
			continue
		}
		remaining = append(remaining, w)
	}
	b.waiters = remaining
	b.mu.Unlock()
}

// SendCommand publishes a command payload to a specific device.
func (b *Broker) SendCommand(ctx context.Context, deviceID string, payload []byte) error {
	token := b.client.Publish(commandTopic(deviceID), 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to send command to device %s: %v", deviceID, token.Error())
	}
	return nil
}

// AwaitEvent blocks until the device reports the named event, the timeout
// elapses, or ctx is cancelled. Reports whether the event arrived.
func (b *Broker) AwaitEvent(ctx context.Context, deviceID, event string, timeout time.Duration) bool {
	w := &eventWaiter{deviceID: deviceID, event: event, ch: make(chan struct{})}
	b.mu.Lock()
	b.waiters = append(b.waiters, w)
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		for i, other := range b.waiters {
			if other == w {
				b.waiters = append(b.waiters[:i], b.waiters[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
	}()

	select {
	case <-w.ch:
		return true
	case <-time.After(timeout):
		return false
	case <-ctx.Done():
		return false
	}
}

// Close disconnects from the broker.
func (b *Broker) Close() {
	if b.client != nil {
		b.client.Disconnect(250)
		log.Info().Msg("MQTT client disconnected")
	}
}
