package fanout

import (
	"context"

	"vega_social_server/pkg/constants"

	"go.uber.org/zap"
)

// Broker decouples event publication from delivery. The channel broker
// keeps everything in-process; the kafka broker round-trips through a topic
// so every node can deliver to its local connections.
type Broker interface {
	Publish(ctx context.Context, env *Envelope) error
	Start()
	Close()
}

// ChannelBroker is the standalone single-node broker: a buffered channel
// drained by one delivery loop.
type ChannelBroker struct {
	transmit chan *Envelope
	deliver  func(*Envelope)
}

// NewChannelBroker creates a ChannelBroker that hands envelopes to deliver.
func NewChannelBroker(deliver func(*Envelope)) *ChannelBroker {
	return &ChannelBroker{
		transmit: make(chan *Envelope, constants.CHANNEL_SIZE),
		deliver:  deliver,
	}
}

// Publish queues the envelope. When the queue is full the envelope is
// delivered inline instead of being dropped or blocking the caller.
func (b *ChannelBroker) Publish(_ context.Context, env *Envelope) error {
	select {
	case b.transmit <- env:
	default:
		zap.L().Warn("event channel full, delivering inline")
		b.deliver(env)
	}
	return nil
}

// Start runs the delivery loop until Close.
func (b *ChannelBroker) Start() {
	for env := range b.transmit {
		b.deliver(env)
	}
}

// Close stops the delivery loop after the queue drains.
func (b *ChannelBroker) Close() {
	close(b.transmit)
}
