package fanout

import (
	"context"
	"encoding/json"
	"time"

	"vega_social_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker publishes envelopes to a topic and delivers the ones read
// back. With one consumer group per node, each node receives every
// envelope and pushes to whichever recipient connections it holds.
type KafkaBroker struct {
	producer *kafka.Writer
	consumer *kafka.Reader
	deliver  func(*Envelope)

	// consume-loop lifetime; created in NewKafkaBroker so Close is safe
	// whether or not Start has run yet
	ctx    context.Context
	cancel context.CancelFunc
}

// NewKafkaBroker creates a broker from the kafka config section.
func NewKafkaBroker(cfg *config.KafkaConfig, deliver func(*Envelope)) *KafkaBroker {
	producer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.HostPort),
		Topic:                  cfg.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.HostPort},
		Topic:          cfg.EventTopic,
		CommitInterval: cfg.Timeout * time.Second,
		GroupID:        cfg.GroupID,
		StartOffset:    kafka.LastOffset,
	})
	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaBroker{
		producer: producer,
		consumer: consumer,
		deliver:  deliver,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish writes the envelope to the topic.
func (b *KafkaBroker) Publish(ctx context.Context, env *Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.Event.Type),
		Value: value,
	})
}

// Start runs the consume loop until Close.
func (b *KafkaBroker) Start() {
	for {
		message, err := b.consumer.ReadMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			zap.L().Error("kafka read failed", zap.Error(err))
			continue
		}
		var env Envelope
		if err := json.Unmarshal(message.Value, &env); err != nil {
			zap.L().Error("kafka envelope decode failed", zap.Error(err))
			continue
		}
		b.deliver(&env)
	}
}

// Close stops the consume loop and releases kafka resources.
func (b *KafkaBroker) Close() {
	b.cancel()
	if err := b.producer.Close(); err != nil {
		zap.L().Error("kafka producer close", zap.Error(err))
	}
	if err := b.consumer.Close(); err != nil {
		zap.L().Error("kafka consumer close", zap.Error(err))
	}
}
