package relationship

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"vega_social_server/internal/dao/mysql/repository"
	"vega_social_server/internal/dao/mysql/repository/memory"
	"vega_social_server/internal/model"
	"vega_social_server/internal/service/fanout"
	"vega_social_server/internal/service/realtime"
	"vega_social_server/pkg/enum/request/request_status_enum"
	"vega_social_server/pkg/errorx"
)

func newTestService() (*Service, *repository.Repositories, *realtime.Registry) {
	repos := memory.NewRepositories()
	registry := realtime.NewRegistry(0)
	engine := fanout.NewEngine(repos, registry)
	engine.DisableCache()
	svc := NewService(repos, engine, 7*24*time.Hour)
	svc.DisableCache()
	return svc, repos, registry
}

func mustSend(t *testing.T, svc *Service, from, to string) *model.FriendRequest {
	t.Helper()
	request, err := svc.SendRequest(context.Background(), from, to, "")
	if err != nil {
		t.Fatalf("SendRequest(%s->%s): %v", from, to, err)
	}
	return request
}

func mustState(t *testing.T, svc *Service, userId, otherId, want string) {
	t.Helper()
	state, err := svc.StateOf(userId, otherId)
	if err != nil {
		t.Fatalf("StateOf(%s,%s): %v", userId, otherId, err)
	}
	if state != want {
		t.Fatalf("StateOf(%s,%s) = %q, want %q", userId, otherId, state, want)
	}
}

func TestSendRequestCreatesPending(t *testing.T) {
	svc, _, _ := newTestService()

	request := mustSend(t, svc, "alice", "bob")
	if request.Status != request_status_enum.PENDING {
		t.Fatalf("status = %d, want pending", request.Status)
	}

	mustState(t, svc, "alice", "bob", StatePendingSent)
	mustState(t, svc, "bob", "alice", StatePendingReceived)
}

func TestSendRequestToSelfRejected(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.SendRequest(context.Background(), "alice", "alice", ""); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("self request error = %v, want invalid param", err)
	}
}

func TestSendRequestConflictsWithPending(t *testing.T) {
	svc, _, _ := newTestService()
	mustSend(t, svc, "alice", "bob")

	// same direction
	if _, err := svc.SendRequest(context.Background(), "alice", "bob", ""); !errorx.IsConflict(err) {
		t.Fatalf("duplicate send error = %v, want conflict", err)
	}
	// opposite direction: one pair, one pending request
	if _, err := svc.SendRequest(context.Background(), "bob", "alice", ""); !errorx.IsConflict(err) {
		t.Fatalf("reverse send error = %v, want conflict", err)
	}
}

func TestSendRequestConflictsWhenFriends(t *testing.T) {
	svc, _, _ := newTestService()
	request := mustSend(t, svc, "alice", "bob")
	if err := svc.AcceptRequest(context.Background(), "bob", request.Uuid); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	if _, err := svc.SendRequest(context.Background(), "alice", "bob", ""); !errorx.IsConflict(err) {
		t.Fatalf("send while friends error = %v, want conflict", err)
	}
}

func TestAcceptCreatesFriendship(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	request := mustSend(t, svc, "alice", "bob")

	if err := svc.AcceptRequest(ctx, "bob", request.Uuid); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	mustState(t, svc, "alice", "bob", StateFriends)
	mustState(t, svc, "bob", "alice", StateFriends)

	ids, err := svc.FriendIdsOf("alice")
	if err != nil {
		t.Fatalf("FriendIdsOf: %v", err)
	}
	if len(ids) != 1 || ids[0] != "bob" {
		t.Fatalf("FriendIdsOf(alice) = %v, want [bob]", ids)
	}

	// repeated accept is a no-op success
	if err := svc.AcceptRequest(ctx, "bob", request.Uuid); err != nil {
		t.Fatalf("repeated AcceptRequest: %v", err)
	}
}

func TestAcceptOnlyByReceiver(t *testing.T) {
	svc, _, _ := newTestService()
	request := mustSend(t, svc, "alice", "bob")

	err := svc.AcceptRequest(context.Background(), "alice", request.Uuid)
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("sender accept error = %v, want forbidden", err)
	}
	err = svc.AcceptRequest(context.Background(), "mallory", request.Uuid)
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("stranger accept error = %v, want forbidden", err)
	}
}

func TestDeclineThenReapply(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	request := mustSend(t, svc, "alice", "bob")

	if err := svc.DeclineRequest(ctx, "bob", request.Uuid); err != nil {
		t.Fatalf("DeclineRequest: %v", err)
	}
	mustState(t, svc, "alice", "bob", StateNone)

	// declining again is a no-op, accept after decline is a conflict
	if err := svc.DeclineRequest(ctx, "bob", request.Uuid); err != nil {
		t.Fatalf("repeated DeclineRequest: %v", err)
	}
	if err := svc.AcceptRequest(ctx, "bob", request.Uuid); !errorx.IsConflict(err) {
		t.Fatalf("accept after decline error = %v, want conflict", err)
	}

	// the declined row never blocks a fresh request
	mustSend(t, svc, "alice", "bob")
	mustState(t, svc, "bob", "alice", StatePendingReceived)
}

func TestCancelOnlyBySender(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	request := mustSend(t, svc, "alice", "bob")

	if err := svc.CancelRequest(ctx, "bob", request.Uuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("receiver cancel error = %v, want forbidden", err)
	}
	if err := svc.CancelRequest(ctx, "alice", request.Uuid); err != nil {
		t.Fatalf("CancelRequest: %v", err)
	}
	if err := svc.CancelRequest(ctx, "alice", request.Uuid); err != nil {
		t.Fatalf("repeated CancelRequest: %v", err)
	}
	mustState(t, svc, "alice", "bob", StateNone)
}

func TestRemoveFriendshipLeavesNoGhost(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	request := mustSend(t, svc, "alice", "bob")
	if err := svc.AcceptRequest(ctx, "bob", request.Uuid); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	if err := svc.RemoveFriendship(ctx, "alice", "bob"); err != nil {
		t.Fatalf("RemoveFriendship: %v", err)
	}
	mustState(t, svc, "alice", "bob", StateNone)
	mustState(t, svc, "bob", "alice", StateNone)

	// idempotent: removing again (or a never-existing friendship) succeeds
	if err := svc.RemoveFriendship(ctx, "bob", "alice"); err != nil {
		t.Fatalf("repeated RemoveFriendship: %v", err)
	}
	if err := svc.RemoveFriendship(ctx, "alice", "carol"); err != nil {
		t.Fatalf("RemoveFriendship of non-friend: %v", err)
	}

	// no leftover accepted row blocks the next request in either direction
	mustSend(t, svc, "bob", "alice")
	mustState(t, svc, "alice", "bob", StatePendingReceived)
}

func TestRequestExpiry(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	current := time.Now()
	svc.now = func() time.Time { return current }

	request := mustSend(t, svc, "alice", "bob")

	current = current.Add(8 * 24 * time.Hour)

	if err := svc.AcceptRequest(ctx, "bob", request.Uuid); errorx.GetCode(err) != errorx.CodeExpired {
		t.Fatalf("accept of expired request error = %v, want expired", err)
	}
	mustState(t, svc, "alice", "bob", StateNone)

	received, err := svc.PendingReceived("bob")
	if err != nil {
		t.Fatalf("PendingReceived: %v", err)
	}
	if len(received) != 0 {
		t.Fatalf("PendingReceived = %d entries, want 0", len(received))
	}

	// an expired row never blocks a fresh request
	mustSend(t, svc, "alice", "bob")
}

func TestExpireOverdueSweep(t *testing.T) {
	svc, _, _ := newTestService()
	current := time.Now()
	svc.now = func() time.Time { return current }

	mustSend(t, svc, "alice", "bob")
	mustSend(t, svc, "alice", "carol")

	current = current.Add(8 * 24 * time.Hour)
	expired, err := svc.ExpireOverdue()
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if expired != 2 {
		t.Fatalf("expired = %d, want 2", expired)
	}
	// second sweep finds nothing pending
	if expired, _ = svc.ExpireOverdue(); expired != 0 {
		t.Fatalf("second sweep expired = %d, want 0", expired)
	}
}

func TestPendingListings(t *testing.T) {
	svc, _, _ := newTestService()
	mustSend(t, svc, "alice", "bob")
	mustSend(t, svc, "carol", "alice")

	sent, err := svc.PendingSent("alice")
	if err != nil {
		t.Fatalf("PendingSent: %v", err)
	}
	if len(sent) != 1 || sent[0].ReceiverId != "bob" {
		t.Fatalf("PendingSent(alice) = %+v", sent)
	}

	received, err := svc.PendingReceived("alice")
	if err != nil {
		t.Fatalf("PendingReceived: %v", err)
	}
	if len(received) != 1 || received[0].SenderId != "carol" {
		t.Fatalf("PendingReceived(alice) = %+v", received)
	}
}

// racingRequestRepo makes one FindByPairKey miss, reproducing the window
// where a symmetric request has not committed yet when the pre-checks run.
type racingRequestRepo struct {
	repository.FriendRequestRepository
	mu   sync.Mutex
	miss bool
}

func (r *racingRequestRepo) FindByPairKey(pairKey string) (*model.FriendRequest, error) {
	r.mu.Lock()
	if r.miss {
		r.miss = false
		r.mu.Unlock()
		return nil, errorx.New(errorx.CodeNotFound, "record not found")
	}
	r.mu.Unlock()
	return r.FriendRequestRepository.FindByPairKey(pairKey)
}

func TestSymmetricRaceLoserGetsSurvivor(t *testing.T) {
	svc, repos, _ := newTestService()

	mustSend(t, svc, "alice", "bob")

	racing := &racingRequestRepo{FriendRequestRepository: repos.FriendRequest}
	repos.FriendRequest = racing
	racing.mu.Lock()
	racing.miss = true
	racing.mu.Unlock()

	// bob's symmetric send ran its checks before alice's commit was
	// visible, loses the unique index race and gets the surviving row
	survivor, err := svc.SendRequest(context.Background(), "bob", "alice", "")
	if err != nil {
		t.Fatalf("racing SendRequest: %v", err)
	}
	if survivor.SenderId != "alice" || survivor.ReceiverId != "bob" {
		t.Fatalf("survivor = %s->%s, want alice->bob", survivor.SenderId, survivor.ReceiverId)
	}
	mustState(t, svc, "bob", "alice", StatePendingReceived)
}

func TestEventsReachReceiverConnection(t *testing.T) {
	svc, _, registry := newTestService()
	ctx := context.Background()

	bobConn := realtime.NewConn("bob", "c1", nil)
	registry.Register(bobConn)

	request := mustSend(t, svc, "alice", "bob")

	select {
	case raw := <-bobConn.Outbound():
		var event fanout.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != "friend_request_received" || event.ActorId != "alice" {
			t.Fatalf("event = %+v", event)
		}
	default:
		t.Fatal("receiver connection got no event")
	}

	if err := svc.AcceptRequest(ctx, "bob", request.Uuid); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	select {
	case raw := <-bobConn.Outbound():
		var event fanout.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != "friend_request_accepted" {
			t.Fatalf("event type = %q", event.Type)
		}
	default:
		t.Fatal("receiver connection got no accept event")
	}
}
