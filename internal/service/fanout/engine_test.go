package fanout

import (
	"context"
	"encoding/json"
	"testing"

	"vega_social_server/internal/dao/mysql/repository"
	"vega_social_server/internal/dao/mysql/repository/memory"
	"vega_social_server/internal/service/realtime"
	"vega_social_server/pkg/constants"
)

func newTestEngine() (*Engine, *repository.Repositories, *realtime.Registry) {
	repos := memory.NewRepositories()
	registry := realtime.NewRegistry(0)
	engine := NewEngine(repos, registry)
	engine.DisableCache()
	return engine, repos, registry
}

func drainOne(t *testing.T, conn *realtime.Conn) []byte {
	t.Helper()
	select {
	case message := <-conn.Outbound():
		return message
	default:
		t.Fatalf("connection %s received no message", conn.ConnId)
		return nil
	}
}

func assertEmpty(t *testing.T, conn *realtime.Conn) {
	t.Helper()
	select {
	case message := <-conn.Outbound():
		t.Fatalf("connection %s received unexpected message %s", conn.ConnId, message)
	default:
	}
}

func TestEmitPersistsWithoutConnections(t *testing.T) {
	engine, repos, _ := newTestEngine()

	engine.Emit(context.Background(), Event{Type: "friend_request_received", ActorId: "u1"}, []string{"u2"})

	count, err := repos.Notification.CountUnread("u2")
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread count = %d, want 1; the durable write must not depend on live delivery", count)
	}
}

func TestEmitDeliversToEveryConnection(t *testing.T) {
	engine, _, registry := newTestEngine()

	connA := realtime.NewConn("u2", "c1", nil)
	connB := realtime.NewConn("u2", "c2", nil)
	connC := realtime.NewConn("u3", "c3", nil)
	registry.Register(connA)
	registry.Register(connB)
	registry.Register(connC)

	engine.Emit(context.Background(), Event{Type: "friend_request_accepted", ActorId: "u1"}, []string{"u2", "u3"})

	for _, conn := range []*realtime.Conn{connA, connB, connC} {
		var event Event
		if err := json.Unmarshal(drainOne(t, conn), &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != "friend_request_accepted" {
			t.Fatalf("event type = %q", event.Type)
		}
		assertEmpty(t, conn)
	}
}

func TestEmitSkipsNonRecipients(t *testing.T) {
	engine, _, registry := newTestEngine()

	bystander := realtime.NewConn("u9", "c9", nil)
	registry.Register(bystander)

	engine.Emit(context.Background(), Event{Type: "friend_request_received", ActorId: "u1"}, []string{"u2"})

	assertEmpty(t, bystander)
}

func TestTransientEventSkipsPersistence(t *testing.T) {
	engine, repos, registry := newTestEngine()

	conn := realtime.NewConn("u2", "c1", nil)
	registry.Register(conn)

	engine.Emit(context.Background(), Event{Type: "presence_changed", ActorId: "u1", Transient: true}, []string{"u2"})

	drainOne(t, conn)
	count, err := repos.Notification.CountUnread("u2")
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 0 {
		t.Fatalf("unread count = %d, want 0 for transient events", count)
	}
}

func TestSlowConnectionDoesNotBlockOthers(t *testing.T) {
	engine, _, registry := newTestEngine()

	slow := realtime.NewConn("u2", "c1", nil)
	healthy := realtime.NewConn("u2", "c2", nil)
	registry.Register(slow)
	registry.Register(healthy)

	// saturate the slow connection's queue so the next push fails
	for i := 0; i < constants.CONN_SEND_BUFFER; i++ {
		if err := slow.Push([]byte("x")); err != nil {
			t.Fatalf("prefill push %d failed: %v", i, err)
		}
	}

	engine.Emit(context.Background(), Event{Type: "friendship_removed", ActorId: "u1"}, []string{"u2"})

	// drain the prefill, the emitted event never made it in
	for i := 0; i < constants.CONN_SEND_BUFFER; i++ {
		<-slow.Outbound()
	}
	assertEmpty(t, slow)

	drainOne(t, healthy)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	engine.Emit(ctx, Event{Type: "friend_request_received", ActorId: "u1"}, []string{"u2"})
	engine.Emit(ctx, Event{Type: "friend_request_cancelled", ActorId: "u1"}, []string{"u2"})

	count, err := engine.UnreadCount("u2")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread count = %d, want 2", count)
	}

	notifications, err := engine.Notifications("u2", 10)
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("notifications = %d, want 2", len(notifications))
	}

	// mark one explicitly, then everything
	if err := engine.MarkRead("u2", []string{notifications[0].Uuid}); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if count, _ = engine.UnreadCount("u2"); count != 1 {
		t.Fatalf("unread count after partial mark = %d, want 1", count)
	}
	if err := engine.MarkRead("u2", nil); err != nil {
		t.Fatalf("MarkRead all: %v", err)
	}
	if count, _ = engine.UnreadCount("u2"); count != 0 {
		t.Fatalf("unread count after mark all = %d, want 0", count)
	}
}

func TestActivityFeedHidesInvisibleEvents(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	engine.Emit(ctx, Event{Type: "friend_request_accepted", ActorId: "u1", SubjectId: "u2",
		Activity: true, ActivityVisible: true}, []string{"u2"})
	engine.Emit(ctx, Event{Type: "friendship_removed", ActorId: "u1", SubjectId: "u3",
		Activity: true, ActivityVisible: false}, []string{"u3"})

	feed, err := engine.ActivityFeed([]string{"u1"}, 10)
	if err != nil {
		t.Fatalf("ActivityFeed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed entries = %d, want 1", len(feed))
	}
	if feed[0].Type != "friend_request_accepted" {
		t.Fatalf("feed entry type = %q", feed[0].Type)
	}
}
