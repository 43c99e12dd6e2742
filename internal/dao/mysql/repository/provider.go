package repository

import (
	"gorm.io/gorm"
)

// Repositories aggregates every repository behind one injection point.
type Repositories struct {
	db            *gorm.DB
	FriendRequest FriendRequestRepository
	Friendship    FriendshipRepository
	Notification  NotificationRepository
	Activity      ActivityEventRepository
	Presence      PresenceRepository
	User          UserRepository
}

// NewRepositories builds the aggregate from a GORM handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		FriendRequest: NewFriendRequestRepository(db),
		Friendship:    NewFriendshipRepository(db),
		Notification:  NewNotificationRepository(db),
		Activity:      NewActivityEventRepository(db),
		Presence:      NewPresenceRepository(db),
		User:          NewUserRepository(db),
	}
}

// Transaction runs fn against a transactional copy of the repositories and
// commits if it returns nil. Without a db handle (in-memory repositories in
// tests) the callback runs against the same set; those repositories apply
// each call immediately.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
