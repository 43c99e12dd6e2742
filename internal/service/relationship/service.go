// Package relationship is the single mutation path for the friendship
// graph. Every transition (request, accept, decline, cancel, removal,
// expiry) goes through this state machine, which serializes work per
// canonical pair and keeps the denormalized rows consistent inside one
// transaction. Callers never touch friend_request or friendship rows
// directly.
package relationship

import (
	"context"
	"time"

	"vega_social_server/internal/dao/mysql/repository"
	myredis "vega_social_server/internal/dao/redis"
	"vega_social_server/internal/model"
	"vega_social_server/internal/service/fanout"
	"vega_social_server/pkg/enum/event/event_type_enum"
	"vega_social_server/pkg/enum/request/request_status_enum"
	"vega_social_server/pkg/errorx"
	"vega_social_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// Pair relation states reported by StateOf, relative to the first user.
const (
	StateNone            = "none"
	StatePendingSent     = "pending_sent"
	StatePendingReceived = "pending_received"
	StateFriends         = "friends"
)

// EventEmitter is the fan-out engine surface the state machine needs.
// Emission happens after the transaction commits and can never fail the
// operation.
type EventEmitter interface {
	Emit(ctx context.Context, event fanout.Event, recipients []string)
}

// PresenceHook is notified when a pair's friendship changes, since that
// changes who is authorized to see whose presence.
type PresenceHook interface {
	FriendshipChanged(userA, userB string)
}

// Service implements the relationship state machine.
type Service struct {
	repos        *repository.Repositories
	locks        *pairLocks
	emitter      EventEmitter
	presenceHook PresenceHook
	requestTTL   time.Duration
	now          func() time.Time
	cacheOff     bool
}

// NewService creates the state machine. emitter may be nil (no events,
// used by some tests); SetPresenceHook wires presence after construction
// because presence also depends on this service's friend lookups.
func NewService(repos *repository.Repositories, emitter EventEmitter, requestTTL time.Duration) *Service {
	return &Service{
		repos:      repos,
		locks:      newPairLocks(),
		emitter:    emitter,
		requestTTL: requestTTL,
		now:        time.Now,
	}
}

// SetPresenceHook wires the presence recomputation callback.
func (s *Service) SetPresenceHook(hook PresenceHook) {
	s.presenceHook = hook
}

// DisableCache turns off redis side effects (tests).
func (s *Service) DisableCache() {
	s.cacheOff = true
}

// SendRequest creates a pending request from sender to receiver.
// Fails with a conflict when the pair is already friends or an unexpired
// pending request exists in either direction. A stale terminal request for
// the pair is deleted and replaced in the same transaction. A symmetric
// race that loses the commit is converted into the surviving row rather
// than surfaced as an error.
func (s *Service) SendRequest(ctx context.Context, senderId, receiverId, message string) (*model.FriendRequest, error) {
	if senderId == "" || receiverId == "" {
		return nil, errorx.ErrInvalidParam
	}
	if senderId == receiverId {
		return nil, errorx.New(errorx.CodeInvalidParam, "cannot send a friend request to yourself")
	}

	pairKey := model.PairKey(senderId, receiverId)
	s.locks.Lock(pairKey)
	defer s.locks.Unlock(pairKey)

	if _, err := s.repos.Friendship.FindByPairKey(pairKey); err == nil {
		return nil, errorx.New(errorx.CodeConflict, "already friends")
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	existing, err := s.repos.FriendRequest.FindByPairKey(pairKey)
	if err == nil {
		if err := s.expireIfOverdue(existing, now); err != nil {
			return nil, err
		}
		if existing.Status == request_status_enum.PENDING {
			return nil, errorx.New(errorx.CodeConflict, "a pending friend request already exists for this pair")
		}
		// stale terminal row: replaced below inside the transaction
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}

	request := &model.FriendRequest{
		Uuid:       snowflake.GenerateIDString(),
		PairKey:    pairKey,
		SenderId:   senderId,
		ReceiverId: receiverId,
		Status:     request_status_enum.PENDING,
		Message:    message,
		ExpiresAt:  now.Add(s.requestTTL),
	}
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if existing != nil {
			if err := tx.FriendRequest.DeleteByPairKey(pairKey); err != nil {
				return err
			}
		}
		return tx.FriendRequest.Create(request)
	})
	if err != nil {
		if errorx.IsConflict(err) {
			// lost a symmetric race: the first committer's row stands,
			// report it as the outcome instead of erroring
			if survivor, findErr := s.repos.FriendRequest.FindByPairKey(pairKey); findErr == nil {
				zap.L().Info("friend request race resolved to first committer",
					zap.String("pairKey", pairKey))
				return survivor, nil
			}
			return nil, errorx.New(errorx.CodeConflict, "relationship changed concurrently, retry")
		}
		return nil, err
	}

	s.emit(ctx, event_type_enum.FriendRequestReceived, senderId, receiverId,
		map[string]any{"request_id": request.Uuid, "message": message},
		false, []string{receiverId})
	return request, nil
}

// AcceptRequest flips a pending request to accepted and creates the
// friendship row in the same transaction. Repeating an accept on an
// already-accepted request is a no-op success.
func (s *Service) AcceptRequest(ctx context.Context, actorId, requestUuid string) error {
	request, err := s.loadRequest(requestUuid)
	if err != nil {
		return err
	}
	if request.ReceiverId != actorId {
		return errorx.New(errorx.CodeForbidden, "only the receiver can accept a friend request")
	}

	s.locks.Lock(request.PairKey)
	defer s.locks.Unlock(request.PairKey)

	// reload under the pair lock, the row may have moved
	request, err = s.loadRequest(requestUuid)
	if err != nil {
		return err
	}

	now := s.now()
	switch request.Status {
	case request_status_enum.ACCEPTED:
		return nil // idempotent retry
	case request_status_enum.DECLINED, request_status_enum.CANCELLED:
		return errorx.New(errorx.CodeConflict, "friend request is no longer open")
	case request_status_enum.EXPIRED:
		return errorx.New(errorx.CodeExpired, "friend request has expired")
	}
	if request.ExpiredAt(now) {
		if err := s.repos.FriendRequest.UpdateStatus(request.Uuid, request_status_enum.EXPIRED); err != nil {
			return err
		}
		return errorx.New(errorx.CodeExpired, "friend request has expired")
	}

	userA, userB := model.OrderPair(request.SenderId, request.ReceiverId)
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.FriendRequest.UpdateStatus(request.Uuid, request_status_enum.ACCEPTED); err != nil {
			return err
		}
		return tx.Friendship.Create(&model.Friendship{
			PairKey: request.PairKey,
			UserAId: userA,
			UserBId: userB,
		})
	})
	if err != nil && !errorx.IsConflict(err) { // duplicate friendship row means a racing accept already won
		return err
	}

	s.invalidateFriendCaches(request.SenderId, request.ReceiverId)
	if s.presenceHook != nil {
		s.presenceHook.FriendshipChanged(request.SenderId, request.ReceiverId)
	}
	s.emit(ctx, event_type_enum.FriendRequestAccepted, actorId, request.SenderId,
		map[string]any{"request_id": request.Uuid},
		true, []string{request.SenderId, request.ReceiverId})
	return nil
}

// DeclineRequest moves a pending request to declined. Invoking it on a
// request that already reached any terminal state is a no-op success.
func (s *Service) DeclineRequest(ctx context.Context, actorId, requestUuid string) error {
	return s.terminate(ctx, actorId, requestUuid, request_status_enum.DECLINED)
}

// CancelRequest moves a pending request to cancelled. Invoking it on a
// request that already reached any terminal state is a no-op success.
func (s *Service) CancelRequest(ctx context.Context, actorId, requestUuid string) error {
	return s.terminate(ctx, actorId, requestUuid, request_status_enum.CANCELLED)
}

func (s *Service) terminate(ctx context.Context, actorId, requestUuid string, target int8) error {
	request, err := s.loadRequest(requestUuid)
	if err != nil {
		return err
	}
	if target == request_status_enum.CANCELLED && request.SenderId != actorId {
		return errorx.New(errorx.CodeForbidden, "only the sender can cancel a friend request")
	}
	if target == request_status_enum.DECLINED && request.ReceiverId != actorId {
		return errorx.New(errorx.CodeForbidden, "only the receiver can decline a friend request")
	}

	s.locks.Lock(request.PairKey)
	defer s.locks.Unlock(request.PairKey)

	request, err = s.loadRequest(requestUuid)
	if err != nil {
		return err
	}
	if request_status_enum.IsTerminal(request.Status) {
		return nil // idempotent retry
	}
	if err := s.repos.FriendRequest.UpdateStatus(request.Uuid, target); err != nil {
		return err
	}

	if target == request_status_enum.DECLINED {
		s.emit(ctx, event_type_enum.FriendRequestDeclined, actorId, request.SenderId,
			map[string]any{"request_id": request.Uuid},
			false, []string{request.SenderId})
	} else {
		s.emit(ctx, event_type_enum.FriendRequestCancelled, actorId, request.ReceiverId,
			map[string]any{"request_id": request.Uuid},
			false, []string{request.ReceiverId})
	}
	return nil
}

// RemoveFriendship returns the pair to "no relation": the friendship row
// and every request row for the pair are deleted in one transaction, so a
// later request is never blocked by a stale accepted record. Idempotent:
// removing a friendship that does not exist succeeds quietly.
func (s *Service) RemoveFriendship(ctx context.Context, actorId, otherId string) error {
	if actorId == "" || otherId == "" {
		return errorx.ErrInvalidParam
	}
	if actorId == otherId {
		return errorx.New(errorx.CodeInvalidParam, "cannot remove a friendship with yourself")
	}

	pairKey := model.PairKey(actorId, otherId)
	s.locks.Lock(pairKey)
	defer s.locks.Unlock(pairKey)

	removed := false
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		var err error
		removed, err = tx.Friendship.DeleteByPairKey(pairKey)
		if err != nil {
			return err
		}
		return tx.FriendRequest.DeleteByPairKey(pairKey)
	})
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	s.invalidateFriendCaches(actorId, otherId)
	if s.presenceHook != nil {
		s.presenceHook.FriendshipChanged(actorId, otherId)
	}
	s.emit(ctx, event_type_enum.FriendshipRemoved, actorId, otherId,
		map[string]any{},
		true, []string{actorId, otherId})
	return nil
}

// StateOf reports the pair state relative to userId: none, pending_sent,
// pending_received or friends. Pending requests past their TTL are expired
// on the way out.
func (s *Service) StateOf(userId, otherId string) (string, error) {
	pairKey := model.PairKey(userId, otherId)

	if _, err := s.repos.Friendship.FindByPairKey(pairKey); err == nil {
		return StateFriends, nil
	} else if !errorx.IsNotFound(err) {
		return "", err
	}

	request, err := s.repos.FriendRequest.FindByPairKey(pairKey)
	if err != nil {
		if errorx.IsNotFound(err) {
			return StateNone, nil
		}
		return "", err
	}
	if err := s.expireIfOverdue(request, s.now()); err != nil {
		return "", err
	}
	if request.Status != request_status_enum.PENDING {
		return StateNone, nil
	}
	if request.SenderId == userId {
		return StatePendingSent, nil
	}
	return StatePendingReceived, nil
}

// FriendIdsOf returns the user's friend ids, served from the redis set
// when warm.
func (s *Service) FriendIdsOf(userId string) ([]string, error) {
	if !s.cacheOff {
		if ids, err := myredis.FriendIds(userId); err == nil && len(ids) > 0 {
			return ids, nil
		}
	}

	friendships, err := s.repos.Friendship.FindByUser(userId)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(friendships))
	for i := range friendships {
		ids = append(ids, friendships[i].Other(userId))
	}

	if !s.cacheOff && len(ids) > 0 {
		userId, ids := userId, ids
		myredis.SubmitCacheTask(func() {
			_ = myredis.CacheFriendIds(userId, ids)
		})
	}
	return ids, nil
}

// FriendsOf returns the user's friends as user records.
func (s *Service) FriendsOf(userId string) ([]model.UserInfo, error) {
	ids, err := s.FriendIdsOf(userId)
	if err != nil {
		return nil, err
	}
	return s.repos.User.FindByUuids(ids)
}

// PendingSent lists the user's outgoing pending requests, expiring overdue
// rows lazily.
func (s *Service) PendingSent(userId string) ([]model.FriendRequest, error) {
	requests, err := s.repos.FriendRequest.FindPendingBySender(userId)
	if err != nil {
		return nil, err
	}
	return s.dropExpired(requests)
}

// PendingReceived lists the user's incoming pending requests, expiring
// overdue rows lazily.
func (s *Service) PendingReceived(userId string) ([]model.FriendRequest, error) {
	requests, err := s.repos.FriendRequest.FindPendingByReceiver(userId)
	if err != nil {
		return nil, err
	}
	return s.dropExpired(requests)
}

// ExpireOverdue flips every overdue pending request to expired. Called by
// the sweeper; reads also expire lazily so correctness never depends on
// the sweep cadence.
func (s *Service) ExpireOverdue() (int64, error) {
	return s.repos.FriendRequest.ExpireOverdue(s.now())
}

func (s *Service) loadRequest(requestUuid string) (*model.FriendRequest, error) {
	request, err := s.repos.FriendRequest.FindByUuid(requestUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "friend request not found")
		}
		return nil, err
	}
	return request, nil
}

func (s *Service) expireIfOverdue(request *model.FriendRequest, now time.Time) error {
	if request.Status != request_status_enum.PENDING || !request.ExpiredAt(now) {
		return nil
	}
	if err := s.repos.FriendRequest.UpdateStatus(request.Uuid, request_status_enum.EXPIRED); err != nil {
		return err
	}
	request.Status = request_status_enum.EXPIRED
	return nil
}

func (s *Service) dropExpired(requests []model.FriendRequest) ([]model.FriendRequest, error) {
	now := s.now()
	kept := requests[:0]
	for i := range requests {
		if err := s.expireIfOverdue(&requests[i], now); err != nil {
			return nil, err
		}
		if requests[i].Status == request_status_enum.PENDING {
			kept = append(kept, requests[i])
		}
	}
	return kept, nil
}

func (s *Service) invalidateFriendCaches(userA, userB string) {
	if s.cacheOff {
		return
	}
	myredis.SubmitCacheTask(func() {
		_ = myredis.InvalidateFriendIds(userA)
		_ = myredis.InvalidateFriendIds(userB)
	})
}

func (s *Service) emit(ctx context.Context, eventType, actorId, subjectId string,
	payload map[string]any, activity bool, recipients []string) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, fanout.Event{
		Type:            eventType,
		ActorId:         actorId,
		SubjectId:       subjectId,
		Payload:         payload,
		Activity:        activity,
		ActivityVisible: eventType == event_type_enum.FriendRequestAccepted,
	}, recipients)
}
