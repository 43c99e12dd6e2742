package presence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vega_social_server/internal/dao/mysql/repository"
	"vega_social_server/internal/dao/mysql/repository/memory"
	"vega_social_server/internal/service/fanout"
	"vega_social_server/internal/service/realtime"
	"vega_social_server/internal/service/relationship"
)

func newTestStack() (*Service, *relationship.Service, *repository.Repositories, *realtime.Registry) {
	repos := memory.NewRepositories()
	registry := realtime.NewRegistry(0)
	engine := fanout.NewEngine(repos, registry)
	engine.DisableCache()
	relationshipSvc := relationship.NewService(repos, engine, 7*24*time.Hour)
	relationshipSvc.DisableCache()
	svc := NewService(repos, relationshipSvc, engine, registry)
	relationshipSvc.SetPresenceHook(svc)
	registry.SetHooks(svc)
	return svc, relationshipSvc, repos, registry
}

func befriend(t *testing.T, relationships *relationship.Service, a, b string) {
	t.Helper()
	ctx := context.Background()
	request, err := relationships.SendRequest(ctx, a, b, "")
	if err != nil {
		t.Fatalf("SendRequest(%s->%s): %v", a, b, err)
	}
	if err := relationships.AcceptRequest(ctx, b, request.Uuid); err != nil {
		t.Fatalf("AcceptRequest(%s): %v", b, err)
	}
}

func mustView(t *testing.T, svc *Service, subjectId, viewerId string) *View {
	t.Helper()
	view, err := svc.ViewFor(subjectId, viewerId)
	if err != nil {
		t.Fatalf("ViewFor(%s,%s): %v", subjectId, viewerId, err)
	}
	return view
}

func drainAll(conn *realtime.Conn) [][]byte {
	var out [][]byte
	for {
		select {
		case message := <-conn.Outbound():
			out = append(out, message)
		default:
			return out
		}
	}
}

func TestConnectedUserReadsOnline(t *testing.T) {
	svc, relationships, _, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")
	registry.Register(realtime.NewConn("alice", "c1", nil))

	if view := mustView(t, svc, "alice", "bob"); view.Status != "online" {
		t.Fatalf("status = %q, want online", view.Status)
	}
}

func TestDisconnectedUserReadsOffline(t *testing.T) {
	svc, relationships, _, _ := newTestStack()
	befriend(t, relationships, "alice", "bob")

	if view := mustView(t, svc, "alice", "bob"); view.Status != "offline" {
		t.Fatalf("status = %q, want offline", view.Status)
	}
}

func TestManualStatusShownWhileConnected(t *testing.T) {
	svc, relationships, _, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")
	registry.Register(realtime.NewConn("alice", "c1", nil))

	if _, err := svc.SetPresence(context.Background(), "alice", "dnd", "", nil); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}

	if view := mustView(t, svc, "alice", "bob"); view.Status != "dnd" {
		t.Fatalf("status = %q, want dnd", view.Status)
	}

	// manual status without a connection still reads offline
	registry.Unregister("c1")
	if view := mustView(t, svc, "alice", "bob"); view.Status != "offline" {
		t.Fatalf("status after disconnect = %q, want offline", view.Status)
	}
}

func TestInvisibleReadsOfflineToOthersOnly(t *testing.T) {
	svc, relationships, _, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")
	registry.Register(realtime.NewConn("alice", "c1", nil))

	if _, err := svc.SetPresence(context.Background(), "alice", "invisible", "", nil); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}

	if view := mustView(t, svc, "alice", "bob"); view.Status != "offline" {
		t.Fatalf("friend sees %q, want offline", view.Status)
	}
	if view := mustView(t, svc, "alice", "alice"); view.Status != "invisible" {
		t.Fatalf("self sees %q, want invisible", view.Status)
	}
}

func TestInvalidStatusRejected(t *testing.T) {
	svc, _, _, _ := newTestStack()
	if _, err := svc.SetPresence(context.Background(), "alice", "offline", "", nil); err == nil {
		t.Fatal("manual offline must be rejected, it is a derived state")
	}
	if _, err := svc.SetPresence(context.Background(), "alice", "lurking", "", nil); err == nil {
		t.Fatal("unknown status must be rejected")
	}
}

func TestPrivacyFriendsOnly(t *testing.T) {
	svc, relationships, _, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")
	registry.Register(realtime.NewConn("alice", "c1", nil))

	if _, err := svc.SetPresence(context.Background(), "alice", "", "friends", nil); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}

	if view := mustView(t, svc, "alice", "bob"); view.Status != "online" {
		t.Fatalf("friend sees %q, want online", view.Status)
	}
	if view := mustView(t, svc, "alice", "stranger"); view.Status != "offline" {
		t.Fatalf("stranger sees %q, want offline", view.Status)
	}
}

func TestPrivacySelected(t *testing.T) {
	svc, relationships, _, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")
	befriend(t, relationships, "alice", "carol")
	registry.Register(realtime.NewConn("alice", "c1", nil))

	if _, err := svc.SetPresence(context.Background(), "alice", "", "selected", []string{"bob"}); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}

	if view := mustView(t, svc, "alice", "bob"); view.Status != "online" {
		t.Fatalf("allow-listed viewer sees %q, want online", view.Status)
	}
	if view := mustView(t, svc, "alice", "carol"); view.Status != "offline" {
		t.Fatalf("friend outside the allow list sees %q, want offline", view.Status)
	}
}

func TestPrivacyNobody(t *testing.T) {
	svc, relationships, _, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")
	registry.Register(realtime.NewConn("alice", "c1", nil))

	if _, err := svc.SetPresence(context.Background(), "alice", "", "nobody", nil); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}

	if view := mustView(t, svc, "alice", "bob"); view.Status != "offline" {
		t.Fatalf("friend sees %q, want offline", view.Status)
	}
	// the subject still sees their own real status
	if view := mustView(t, svc, "alice", "alice"); view.Status != "online" {
		t.Fatalf("self sees %q, want online", view.Status)
	}
}

func TestPrivacyEveryoneIncludesStrangers(t *testing.T) {
	svc, _, _, registry := newTestStack()
	registry.Register(realtime.NewConn("alice", "c1", nil))

	if view := mustView(t, svc, "alice", "stranger"); view.Status != "online" {
		t.Fatalf("stranger sees %q, want online under everyone", view.Status)
	}
}

func TestFriendViews(t *testing.T) {
	svc, relationships, _, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")
	befriend(t, relationships, "alice", "carol")
	registry.Register(realtime.NewConn("bob", "c1", nil))

	views, err := svc.FriendViews("alice")
	if err != nil {
		t.Fatalf("FriendViews: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	byUser := make(map[string]string, len(views))
	for _, view := range views {
		byUser[view.UserId] = view.Status
	}
	if byUser["bob"] != "online" {
		t.Fatalf("bob status = %q, want online", byUser["bob"])
	}
	if byUser["carol"] != "offline" {
		t.Fatalf("carol status = %q, want offline", byUser["carol"])
	}
}

func TestConnectionTransitionsMirroredToStorage(t *testing.T) {
	_, _, repos, registry := newTestStack()

	registry.Register(realtime.NewConn("alice", "c1", nil))
	record, err := repos.Presence.FindByUserId("alice")
	if err != nil {
		t.Fatalf("FindByUserId: %v", err)
	}
	if record.ConnectionCount != 1 {
		t.Fatalf("connection count = %d, want 1", record.ConnectionCount)
	}

	registry.Unregister("c1")
	record, err = repos.Presence.FindByUserId("alice")
	if err != nil {
		t.Fatalf("FindByUserId: %v", err)
	}
	if record.ConnectionCount != 0 {
		t.Fatalf("connection count = %d, want 0", record.ConnectionCount)
	}
	if record.LastSeen.IsZero() {
		t.Fatal("last seen not recorded")
	}
}

func TestPresenceChangesPushedToFriends(t *testing.T) {
	svc, relationships, repos, registry := newTestStack()
	befriend(t, relationships, "alice", "bob")

	bobConn := realtime.NewConn("bob", "cb", nil)
	registry.Register(bobConn)
	drainAll(bobConn)

	unreadBefore, _ := repos.Notification.CountUnread("bob")

	registry.Register(realtime.NewConn("alice", "ca", nil))
	messages := drainAll(bobConn)
	if !hasPresenceEvent(t, messages, "alice", "online") {
		t.Fatalf("bob got no online event, messages: %d", len(messages))
	}

	if _, err := svc.SetPresence(context.Background(), "alice", "away", "", nil); err != nil {
		t.Fatalf("SetPresence: %v", err)
	}
	if !hasPresenceEvent(t, drainAll(bobConn), "alice", "away") {
		t.Fatal("bob got no away event")
	}

	registry.Unregister("ca")
	if !hasPresenceEvent(t, drainAll(bobConn), "alice", "offline") {
		t.Fatal("bob got no offline event")
	}

	// presence traffic is transient, nothing was persisted
	unreadAfter, _ := repos.Notification.CountUnread("bob")
	if unreadAfter != unreadBefore {
		t.Fatalf("unread count changed %d -> %d on presence events", unreadBefore, unreadAfter)
	}
}

func hasPresenceEvent(t *testing.T, messages [][]byte, userId, status string) bool {
	t.Helper()
	for _, raw := range messages {
		var event fanout.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != "presence_changed" {
			continue
		}
		if event.Payload["user_id"] == userId && event.Payload["status"] == status {
			return true
		}
	}
	return false
}
