package fanout

import (
	"context"
	"encoding/json"
	"time"

	"vega_social_server/internal/dao/mysql/repository"
	myredis "vega_social_server/internal/dao/redis"
	"vega_social_server/internal/model"
	"vega_social_server/internal/service/realtime"
	"vega_social_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// Engine implements write-before-notify fan-out. Emit persists the
// notification/activity records, then pushes the event to every live
// connection of each recipient through the configured broker. Emit never
// returns an error: persistence failures are logged, delivery failures are
// logged, and neither reaches the caller.
type Engine struct {
	repos    *repository.Repositories
	registry *realtime.Registry
	broker   Broker
	cacheOff bool // tests run without redis
}

// NewEngine creates an engine without a broker; events deliver inline until
// UseBroker installs one. Inline delivery is also the mode the tests run in.
func NewEngine(repos *repository.Repositories, registry *realtime.Registry) *Engine {
	return &Engine{repos: repos, registry: registry}
}

// UseBroker installs the broker the engine publishes through.
func (e *Engine) UseBroker(broker Broker) {
	e.broker = broker
}

// DeliverLocal pushes an envelope to this node's matching connections.
// Exposed as the delivery callback for brokers.
func (e *Engine) DeliverLocal(env *Envelope) {
	message, err := json.Marshal(env.Event)
	if err != nil {
		zap.L().Error("event encode failed", zap.Error(err))
		return
	}
	for _, recipientId := range env.Recipients {
		for _, conn := range e.registry.ConnectionsFor(recipientId) {
			if err := conn.Push(message); err != nil {
				// isolated: a slow or dead connection never affects
				// the other recipients or the caller
				zap.L().Warn("event push failed",
					zap.String("recipientId", recipientId),
					zap.String("type", env.Event.Type),
					zap.Error(err))
			}
		}
	}
}

// DisableCache turns off redis side effects (tests).
func (e *Engine) DisableCache() {
	e.cacheOff = true
}

// Emit records and distributes an event to the recipient set.
func (e *Engine) Emit(ctx context.Context, event Event, recipients []string) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// durable records first: they are the authoritative trail whether or
	// not any live push lands
	if !event.Transient {
		e.persist(&event, recipients)
	}

	env := &Envelope{Event: event, Recipients: recipients}
	if e.broker == nil {
		e.DeliverLocal(env)
		return
	}
	if err := e.broker.Publish(ctx, env); err != nil {
		zap.L().Warn("event publish failed",
			zap.String("type", event.Type), zap.Error(err))
	}
}

func (e *Engine) persist(event *Event, recipients []string) {
	payload := ""
	if event.Payload != nil {
		if raw, err := json.Marshal(event.Payload); err == nil {
			payload = string(raw)
		} else {
			zap.L().Error("event payload encode failed", zap.Error(err))
		}
	}

	for _, recipientId := range recipients {
		notification := &model.Notification{
			Uuid:        snowflake.GenerateIDString(),
			RecipientId: recipientId,
			SenderId:    event.ActorId,
			Type:        event.Type,
			Payload:     payload,
		}
		if err := e.repos.Notification.Create(notification); err != nil {
			zap.L().Error("notification write failed",
				zap.String("recipientId", recipientId),
				zap.String("type", event.Type), zap.Error(err))
			continue
		}
		if !e.cacheOff {
			recipientId := recipientId
			myredis.SubmitCacheTask(func() {
				_ = myredis.IncrUnread(recipientId)
			})
		}
	}

	if event.Activity {
		activity := &model.ActivityEvent{
			Uuid:      snowflake.GenerateIDString(),
			ActorId:   event.ActorId,
			SubjectId: event.SubjectId,
			Type:      event.Type,
			Payload:   payload,
			Visible:   event.ActivityVisible,
		}
		if err := e.repos.Activity.Create(activity); err != nil {
			zap.L().Error("activity write failed",
				zap.String("type", event.Type), zap.Error(err))
		}
	}
}

// UnreadCount returns the recipient's unread notification count, served
// from the redis counter when warm.
func (e *Engine) UnreadCount(recipientId string) (int64, error) {
	if !e.cacheOff {
		if count, ok := myredis.UnreadCount(recipientId); ok {
			return count, nil
		}
	}
	count, err := e.repos.Notification.CountUnread(recipientId)
	if err != nil {
		return 0, err
	}
	if !e.cacheOff {
		recipientId, count := recipientId, count
		myredis.SubmitCacheTask(func() {
			_ = myredis.SetUnreadCount(recipientId, count)
		})
	}
	return count, nil
}

// Notifications lists the recipient's recent notifications.
func (e *Engine) Notifications(recipientId string, limit int) ([]model.Notification, error) {
	return e.repos.Notification.FindByRecipient(recipientId, limit)
}

// MarkRead marks the given notifications read (all of them when uuids is
// empty) and refreshes the unread counter.
func (e *Engine) MarkRead(recipientId string, uuids []string) error {
	if err := e.repos.Notification.MarkRead(recipientId, uuids); err != nil {
		return err
	}
	count, err := e.repos.Notification.CountUnread(recipientId)
	if err != nil {
		return err
	}
	if !e.cacheOff {
		recipientId, count := recipientId, count
		myredis.SubmitCacheTask(func() {
			_ = myredis.SetUnreadCount(recipientId, count)
		})
	}
	return nil
}

// ActivityFeed lists visible activity of the given actors, newest first.
func (e *Engine) ActivityFeed(actorIds []string, limit int) ([]model.ActivityEvent, error) {
	return e.repos.Activity.FindVisibleByActors(actorIds, limit)
}
