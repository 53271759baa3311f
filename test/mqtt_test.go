package test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hassaan22/minaret/internal/playback"
)

// TestBrokerRoundtrip needs a reachable MQTT broker; set MQTT_BROKER_URL
// to run it.
func TestBrokerRoundtrip(t *testing.T) {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		t.Skip("MQTT_BROKER_URL not set, skipping broker test")
	}

	broker, err := playback.NewBroker(brokerURL, "minaret-test-server")
	if err != nil {
		t.Skipf("MQTT broker not available: %v", err)
	}
	defer broker.Close()

	// a second client plays the device role
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("minaret-test-device")
	device := mqtt.NewClient(opts)
	if token := device.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("device client connect: %v", token.Error())
	}
	defer device.Disconnect(250)

	received := make(chan []byte, 1)
	token := device.Subscribe("minaret/test-device-1/commands", 1, func(c mqtt.Client, m mqtt.Message) {
		received <- m.Payload()
	})
	if token.Wait() && token.Error() != nil {
		t.Fatalf("device subscribe: %v", token.Error())
	}

	payload, _ := json.Marshal(map[string]any{"type": "play_media", "url": "http://x/a.mp3"})
	if err := broker.SendCommand(context.Background(), "test-device-1", payload); err != nil {
		t.Fatalf("send command: %v", err)
	}

	select {
	case got := <-received:
		var cmd struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(got, &cmd); err != nil || cmd.Type != "play_media" {
			t.Errorf("device received %s", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("device never received the command")
	}

	// device acknowledgment wakes a pending AwaitEvent
	go func() {
		time.Sleep(200 * time.Millisecond)
		ack, _ := json.Marshal(map[string]string{"event": "awake"})
		device.Publish("minaret/test-device-1/events", 1, false, ack)
	}()

	if !broker.AwaitEvent(context.Background(), "test-device-1", "awake", 5*time.Second) {
		t.Error("awaited event never arrived")
	}
}
