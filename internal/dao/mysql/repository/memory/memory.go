// Package memory provides map-backed repository implementations. The
// service tests run the real business logic against these instead of MySQL;
// they reproduce the uniqueness guarantees the schema enforces, including
// the single-row-per-pair constraint the state machine's tie-break relies
// on.
package memory

import (
	"sort"
	"sync"
	"time"

	"vega_social_server/internal/dao/mysql/repository"
	"vega_social_server/internal/model"
	"vega_social_server/pkg/enum/request/request_status_enum"
	"vega_social_server/pkg/errorx"
)

// NewRepositories builds a fully in-memory repository aggregate. The nil
// db handle makes Repositories.Transaction run callbacks directly against
// this same set.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		FriendRequest: &friendRequestRepo{byPair: make(map[string]*model.FriendRequest)},
		Friendship:    &friendshipRepo{byPair: make(map[string]*model.Friendship)},
		Notification:  &notificationRepo{},
		Activity:      &activityRepo{},
		Presence:      &presenceRepo{byUser: make(map[string]*model.PresenceRecord)},
		User:          &userRepo{byUuid: make(map[string]*model.UserInfo)},
	}
}

func notFound() error {
	return errorx.New(errorx.CodeNotFound, "record not found")
}

func duplicate() error {
	return errorx.New(errorx.CodeConflict, "duplicate key")
}

type friendRequestRepo struct {
	mu     sync.Mutex
	byPair map[string]*model.FriendRequest
}

func (r *friendRequestRepo) FindByUuid(uuid string) (*model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.byPair {
		if request.Uuid == uuid {
			copied := *request
			return &copied, nil
		}
	}
	return nil, notFound()
}

func (r *friendRequestRepo) FindByPairKey(pairKey string) (*model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.byPair[pairKey]
	if !ok {
		return nil, notFound()
	}
	copied := *request
	return &copied, nil
}

func (r *friendRequestRepo) FindPendingBySender(senderId string) ([]model.FriendRequest, error) {
	return r.findPending(func(request *model.FriendRequest) bool {
		return request.SenderId == senderId
	})
}

func (r *friendRequestRepo) FindPendingByReceiver(receiverId string) ([]model.FriendRequest, error) {
	return r.findPending(func(request *model.FriendRequest) bool {
		return request.ReceiverId == receiverId
	})
}

func (r *friendRequestRepo) findPending(match func(*model.FriendRequest) bool) ([]model.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.FriendRequest
	for _, request := range r.byPair {
		if request.Status == request_status_enum.PENDING && match(request) {
			out = append(out, *request)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uuid < out[j].Uuid })
	return out, nil
}

func (r *friendRequestRepo) Create(request *model.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPair[request.PairKey]; exists {
		return duplicate()
	}
	request.CreatedAt = time.Now()
	copied := *request
	r.byPair[request.PairKey] = &copied
	return nil
}

func (r *friendRequestRepo) UpdateStatus(uuid string, status int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.byPair {
		if request.Uuid == uuid {
			request.Status = status
			return nil
		}
	}
	return notFound()
}

func (r *friendRequestRepo) DeleteByPairKey(pairKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPair, pairKey)
	return nil
}

func (r *friendRequestRepo) ExpireOverdue(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var flipped int64
	for _, request := range r.byPair {
		if request.Status == request_status_enum.PENDING && now.After(request.ExpiresAt) {
			request.Status = request_status_enum.EXPIRED
			flipped++
		}
	}
	return flipped, nil
}

type friendshipRepo struct {
	mu     sync.Mutex
	byPair map[string]*model.Friendship
}

func (r *friendshipRepo) FindByPairKey(pairKey string) (*model.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	friendship, ok := r.byPair[pairKey]
	if !ok {
		return nil, notFound()
	}
	copied := *friendship
	return &copied, nil
}

func (r *friendshipRepo) FindByUser(userId string) ([]model.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Friendship
	for _, friendship := range r.byPair {
		if friendship.UserAId == userId || friendship.UserBId == userId {
			out = append(out, *friendship)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PairKey < out[j].PairKey })
	return out, nil
}

func (r *friendshipRepo) Create(friendship *model.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPair[friendship.PairKey]; exists {
		return duplicate()
	}
	friendship.CreatedAt = time.Now()
	copied := *friendship
	r.byPair[friendship.PairKey] = &copied
	return nil
}

func (r *friendshipRepo) DeleteByPairKey(pairKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, existed := r.byPair[pairKey]
	delete(r.byPair, pairKey)
	return existed, nil
}

type notificationRepo struct {
	mu   sync.Mutex
	rows []*model.Notification
}

func (r *notificationRepo) Create(notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *notificationRepo) FindByRecipient(recipientId string, limit int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].RecipientId == recipientId {
			out = append(out, *r.rows[i])
		}
	}
	return out, nil
}

func (r *notificationRepo) CountUnread(recipientId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if row.RecipientId == recipientId && !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(recipientId string, uuids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(uuids))
	for _, uuid := range uuids {
		wanted[uuid] = true
	}
	for _, row := range r.rows {
		if row.RecipientId != recipientId {
			continue
		}
		if len(uuids) == 0 || wanted[row.Uuid] {
			row.IsRead = true
		}
	}
	return nil
}

type activityRepo struct {
	mu   sync.Mutex
	rows []*model.ActivityEvent
}

func (r *activityRepo) Create(event *model.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.CreatedAt = time.Now()
	copied := *event
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *activityRepo) FindVisibleByActors(actorIds []string, limit int) ([]model.ActivityEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actors := make(map[string]bool, len(actorIds))
	for _, id := range actorIds {
		actors[id] = true
	}
	var out []model.ActivityEvent
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].Visible && actors[r.rows[i].ActorId] {
			out = append(out, *r.rows[i])
		}
	}
	return out, nil
}

type presenceRepo struct {
	mu     sync.Mutex
	byUser map[string]*model.PresenceRecord
}

func (r *presenceRepo) FindByUserId(userId string) (*model.PresenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byUser[userId]
	if !ok {
		return nil, notFound()
	}
	copied := *record
	return &copied, nil
}

func (r *presenceRepo) Upsert(record *model.PresenceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	if existing, ok := r.byUser[record.UserId]; ok {
		copied.ConnectionCount = existing.ConnectionCount
		copied.LastSeen = existing.LastSeen
	}
	r.byUser[record.UserId] = &copied
	return nil
}

func (r *presenceRepo) UpdateConnection(userId string, count int, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byUser[userId]
	if !ok {
		record = &model.PresenceRecord{UserId: userId}
		r.byUser[userId] = record
	}
	record.ConnectionCount = count
	record.LastSeen = lastSeen
	return nil
}

type userRepo struct {
	mu     sync.Mutex
	byUuid map[string]*model.UserInfo
}

// AddUser seeds a user record; tests reach this through the concrete type.
func (r *userRepo) AddUser(user model.UserInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUuid[user.Uuid] = &user
}

func (r *userRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byUuid[uuid]
	if !ok {
		return nil, notFound()
	}
	copied := *user
	return &copied, nil
}

func (r *userRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.UserInfo, 0, len(uuids))
	for _, uuid := range uuids {
		if user, ok := r.byUuid[uuid]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

// SeedUser inserts a user record into the aggregate's user repository.
func SeedUser(repos *repository.Repositories, user model.UserInfo) {
	repos.User.(*userRepo).AddUser(user)
}
