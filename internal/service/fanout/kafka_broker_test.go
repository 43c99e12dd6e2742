package fanout

import (
	"testing"
	"time"

	"vega_social_server/internal/config"
)

// Close may run before Start's goroutine has been scheduled; the consume
// loop must still observe the cancellation and return instead of spinning
// on read errors.
func TestKafkaBrokerCloseBeforeStartStopsLoop(t *testing.T) {
	broker := NewKafkaBroker(&config.KafkaConfig{
		HostPort:   "127.0.0.1:1", // nothing listens here
		EventTopic: "events_test",
		GroupID:    "node_test",
		Timeout:    1,
	}, func(*Envelope) {})

	broker.Close()

	done := make(chan struct{})
	go func() {
		broker.Start()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume loop still running after Close")
	}
}
