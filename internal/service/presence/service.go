// Package presence derives what each viewer is allowed to see of each
// user's presence. The registry reports raw connection transitions; this
// layer combines them with the user's manual status and privacy scope and
// pushes per-viewer presence_changed events to the user's friends.
package presence

import (
	"context"
	"encoding/json"
	"time"

	"vega_social_server/internal/dao/mysql/repository"
	"vega_social_server/internal/model"
	"vega_social_server/internal/service/fanout"
	"vega_social_server/internal/service/realtime"
	"vega_social_server/pkg/enum/event/event_type_enum"
	"vega_social_server/pkg/enum/presence/presence_status_enum"
	"vega_social_server/pkg/enum/presence/privacy_mode_enum"
	"vega_social_server/pkg/errorx"

	"go.uber.org/zap"
)

// EventEmitter is the fan-out surface this layer pushes presence changes
// through. Presence events are transient: nothing is persisted for them.
type EventEmitter interface {
	Emit(ctx context.Context, event fanout.Event, recipients []string)
}

// FriendSource answers who a user's friends are. Satisfied by the
// relationship service.
type FriendSource interface {
	FriendIdsOf(userId string) ([]string, error)
}

// View is one viewer's authorized snapshot of a subject's presence.
type View struct {
	UserId   string `json:"user_id"`
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen,omitempty"` // unix seconds, zero when hidden
}

// Service implements presence derivation and distribution.
type Service struct {
	repos    *repository.Repositories
	friends  FriendSource
	emitter  EventEmitter
	registry *realtime.Registry
	now      func() time.Time
}

// NewService creates the presence layer. It must also be installed on the
// registry (SetHooks) and the relationship service (SetPresenceHook).
func NewService(repos *repository.Repositories, friends FriendSource,
	emitter EventEmitter, registry *realtime.Registry) *Service {
	return &Service{
		repos:    repos,
		friends:  friends,
		emitter:  emitter,
		registry: registry,
		now:      time.Now,
	}
}

// UserOnline mirrors the registry transition into storage and notifies the
// user's friends. Implements realtime.Hooks.
func (s *Service) UserOnline(userId string) {
	s.connectionChanged(userId)
}

// UserOffline mirrors the registry transition into storage and notifies the
// user's friends. Implements realtime.Hooks.
func (s *Service) UserOffline(userId string) {
	s.connectionChanged(userId)
}

func (s *Service) connectionChanged(userId string) {
	count := s.registry.CountFor(userId)
	if err := s.repos.Presence.UpdateConnection(userId, count, s.now()); err != nil {
		zap.L().Error("presence connection update failed",
			zap.String("userId", userId), zap.Error(err))
	}
	s.broadcast(userId)
}

// FriendshipChanged pushes both users' current presence to each other,
// since the pair's mutual visibility just changed. Implements
// relationship.PresenceHook.
func (s *Service) FriendshipChanged(userA, userB string) {
	s.pushTo(userA, userB)
	s.pushTo(userB, userA)
}

// SetPresence updates the user's manual status, privacy scope and allow
// list, then notifies their friends. Empty status or privacy leaves that
// field unchanged.
func (s *Service) SetPresence(ctx context.Context, userId, status, privacy string, allowList []string) (*View, error) {
	record, err := s.recordFor(userId)
	if err != nil {
		return nil, err
	}

	if status != "" {
		parsed, ok := presence_status_enum.FromLabel(status)
		if !ok || parsed == presence_status_enum.OFFLINE {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "invalid presence status %q", status)
		}
		record.ManualStatus = parsed
	}
	if privacy != "" {
		parsed, ok := privacy_mode_enum.FromLabel(privacy)
		if !ok {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "invalid privacy mode %q", privacy)
		}
		record.PrivacyMode = parsed
	}
	if allowList != nil {
		raw, err := json.Marshal(allowList)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "invalid allow list")
		}
		record.AllowList = string(raw)
	}

	if err := s.repos.Presence.Upsert(record); err != nil {
		return nil, err
	}
	s.broadcast(userId)

	view := s.selfView(userId, record)
	return &view, nil
}

// ViewFor returns the subject's presence as the viewer is allowed to see
// it. A viewer outside the subject's privacy scope sees offline with no
// last-seen time.
func (s *Service) ViewFor(subjectId, viewerId string) (*View, error) {
	record, err := s.recordFor(subjectId)
	if err != nil {
		return nil, err
	}
	if subjectId == viewerId {
		view := s.selfView(subjectId, record)
		return &view, nil
	}

	isFriend, err := s.areFriends(subjectId, viewerId)
	if err != nil {
		return nil, err
	}
	view := s.viewFor(subjectId, viewerId, record, isFriend)
	return &view, nil
}

// FriendViews returns the presence of each of the user's friends, filtered
// through each friend's own privacy scope.
func (s *Service) FriendViews(userId string) ([]View, error) {
	friendIds, err := s.friends.FriendIdsOf(userId)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(friendIds))
	for _, friendId := range friendIds {
		record, err := s.recordFor(friendId)
		if err != nil {
			return nil, err
		}
		views = append(views, s.viewFor(friendId, userId, record, true))
	}
	return views, nil
}

// broadcast pushes the subject's presence to every friend, each filtered
// through the subject's privacy scope for that viewer.
func (s *Service) broadcast(subjectId string) {
	friendIds, err := s.friends.FriendIdsOf(subjectId)
	if err != nil {
		zap.L().Error("presence broadcast friend lookup failed",
			zap.String("userId", subjectId), zap.Error(err))
		return
	}
	record, err := s.recordFor(subjectId)
	if err != nil {
		zap.L().Error("presence broadcast record lookup failed",
			zap.String("userId", subjectId), zap.Error(err))
		return
	}
	for _, viewerId := range friendIds {
		s.emitView(subjectId, viewerId, s.viewFor(subjectId, viewerId, record, true))
	}
}

// pushTo sends the subject's current presence to one viewer.
func (s *Service) pushTo(subjectId, viewerId string) {
	record, err := s.recordFor(subjectId)
	if err != nil {
		zap.L().Error("presence push record lookup failed",
			zap.String("userId", subjectId), zap.Error(err))
		return
	}
	isFriend, err := s.areFriends(subjectId, viewerId)
	if err != nil {
		zap.L().Error("presence push friendship lookup failed",
			zap.String("userId", subjectId), zap.Error(err))
		return
	}
	s.emitView(subjectId, viewerId, s.viewFor(subjectId, viewerId, record, isFriend))
}

func (s *Service) emitView(subjectId, viewerId string, view View) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(context.Background(), fanout.Event{
		Type:      event_type_enum.PresenceChanged,
		ActorId:   subjectId,
		SubjectId: subjectId,
		Payload:   map[string]any{"user_id": view.UserId, "status": view.Status, "last_seen": view.LastSeen},
		Transient: true,
	}, []string{viewerId})
}

// recordFor loads the subject's presence record, defaulting a user who
// never set anything to online/everyone.
func (s *Service) recordFor(userId string) (*model.PresenceRecord, error) {
	record, err := s.repos.Presence.FindByUserId(userId)
	if err == nil {
		return record, nil
	}
	if errorx.IsNotFound(err) {
		return &model.PresenceRecord{
			UserId:       userId,
			ManualStatus: presence_status_enum.ONLINE,
			PrivacyMode:  privacy_mode_enum.EVERYONE,
		}, nil
	}
	return nil, err
}

// viewFor applies the privacy matrix for one subject/viewer pair. The
// caller supplies whether the pair is friends; the subject themselves never
// routes through here.
func (s *Service) viewFor(subjectId, viewerId string, record *model.PresenceRecord, isFriend bool) View {
	if !s.allowed(viewerId, record, isFriend) {
		return View{UserId: subjectId, Status: presence_status_enum.Label(presence_status_enum.OFFLINE)}
	}
	status := s.effectiveStatus(subjectId, record)
	view := View{UserId: subjectId, Status: presence_status_enum.Label(status)}
	if status == presence_status_enum.OFFLINE && !record.LastSeen.IsZero() {
		view.LastSeen = record.LastSeen.Unix()
	}
	return view
}

// selfView is the subject's own unfiltered view: invisible shows as
// invisible, not offline.
func (s *Service) selfView(subjectId string, record *model.PresenceRecord) View {
	status := record.ManualStatus
	if s.registry.CountFor(subjectId) == 0 {
		status = presence_status_enum.OFFLINE
	}
	view := View{UserId: subjectId, Status: presence_status_enum.Label(status)}
	if status == presence_status_enum.OFFLINE && !record.LastSeen.IsZero() {
		view.LastSeen = record.LastSeen.Unix()
	}
	return view
}

// effectiveStatus derives the externally visible status: zero connections
// or invisible mode read as offline, otherwise the manual status stands.
func (s *Service) effectiveStatus(subjectId string, record *model.PresenceRecord) int8 {
	if record.ManualStatus == presence_status_enum.INVISIBLE {
		return presence_status_enum.OFFLINE
	}
	if s.registry.CountFor(subjectId) == 0 {
		return presence_status_enum.OFFLINE
	}
	return record.ManualStatus
}

// allowed evaluates the subject's privacy scope against one viewer.
func (s *Service) allowed(viewerId string, record *model.PresenceRecord, isFriend bool) bool {
	switch record.PrivacyMode {
	case privacy_mode_enum.NOBODY:
		return false
	case privacy_mode_enum.FRIENDS_ONLY:
		return isFriend
	case privacy_mode_enum.SELECTED:
		if record.AllowList == "" {
			return false
		}
		var allowed []string
		if err := json.Unmarshal([]byte(record.AllowList), &allowed); err != nil {
			zap.L().Warn("presence allow list decode failed",
				zap.String("userId", record.UserId), zap.Error(err))
			return false
		}
		for _, id := range allowed {
			if id == viewerId {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func (s *Service) areFriends(subjectId, viewerId string) (bool, error) {
	_, err := s.repos.Friendship.FindByPairKey(model.PairKey(subjectId, viewerId))
	if err == nil {
		return true, nil
	}
	if errorx.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
