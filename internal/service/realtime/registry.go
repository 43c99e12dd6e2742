package realtime

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hooks receives presence-relevant transitions from the registry. UserOnline
// fires on a user's first connection; UserOffline fires once the last
// connection has been gone for the full debounce window.
type Hooks interface {
	UserOnline(userId string)
	UserOffline(userId string)
}

// bucket holds one user's connections. All mutation of a bucket happens
// under its own mutex, so independent users never contend.
type bucket struct {
	mu           sync.Mutex
	conns        map[string]*Conn
	online       bool        // an online transition fired and no offline yet
	offlineTimer *time.Timer // pending debounced offline transition
	dead         bool        // removed from the registry; holders must re-fetch
}

// Registry tracks the live connections of every user on this node.
type Registry struct {
	mu       sync.RWMutex
	buckets  map[string]*bucket
	index    map[string]string // connId -> userId
	debounce time.Duration
	hooks    Hooks
}

// NewRegistry creates a registry. debounce delays the offline transition
// after the last connection closes; zero means immediate.
func NewRegistry(debounce time.Duration) *Registry {
	return &Registry{
		buckets:  make(map[string]*bucket),
		index:    make(map[string]string),
		debounce: debounce,
	}
}

// SetHooks wires the presence callbacks. Called once during startup, before
// any connection is accepted.
func (r *Registry) SetHooks(hooks Hooks) {
	r.hooks = hooks
}

func (r *Registry) bucketFor(userId string, create bool) *bucket {
	r.mu.RLock()
	b := r.buckets[userId]
	r.mu.RUnlock()
	if b != nil || !create {
		return b
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if b = r.buckets[userId]; b == nil {
		b = &bucket{conns: make(map[string]*Conn)}
		r.buckets[userId] = b
	}
	return b
}

// Register adds a connection. A pending offline timer for the user is
// cancelled (quick reconnect); the online hook fires only on the
// offline-to-online edge.
func (r *Registry) Register(conn *Conn) {
	var wentOnline bool
	for {
		b := r.bucketFor(conn.UserId, true)
		b.mu.Lock()
		if b.dead {
			// lost a race with fireOffline dropping the bucket
			b.mu.Unlock()
			continue
		}
		b.conns[conn.ConnId] = conn
		if b.offlineTimer != nil {
			b.offlineTimer.Stop()
			b.offlineTimer = nil
		}
		wentOnline = !b.online
		b.online = true
		b.mu.Unlock()
		break
	}

	r.mu.Lock()
	r.index[conn.ConnId] = conn.UserId
	r.mu.Unlock()

	zap.L().Info("connection registered",
		zap.String("userId", conn.UserId), zap.String("connId", conn.ConnId))

	if wentOnline && r.hooks != nil {
		r.hooks.UserOnline(conn.UserId)
	}
}

// Unregister removes a connection by id. When it was the user's last
// connection the offline transition is scheduled after the debounce window
// and fires only if no connection reappeared in the meantime.
func (r *Registry) Unregister(connId string) {
	r.mu.Lock()
	userId, ok := r.index[connId]
	delete(r.index, connId)
	r.mu.Unlock()
	if !ok {
		return
	}

	b := r.bucketFor(userId, false)
	if b == nil {
		return
	}

	b.mu.Lock()
	conn := b.conns[connId]
	delete(b.conns, connId)
	lastGone := len(b.conns) == 0 && b.online
	if lastGone {
		if b.offlineTimer != nil {
			b.offlineTimer.Stop()
		}
		if r.debounce > 0 {
			b.offlineTimer = time.AfterFunc(r.debounce, func() {
				r.fireOffline(userId)
			})
		}
	}
	b.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	zap.L().Info("connection unregistered",
		zap.String("userId", userId), zap.String("connId", connId))

	if lastGone && r.debounce <= 0 {
		r.fireOffline(userId)
	}
}

// fireOffline completes a debounced offline transition. Re-checks the
// connection count: a reconnect during the window wins. The now-empty
// bucket is dropped from the registry so long-gone users cost nothing.
func (r *Registry) fireOffline(userId string) {
	r.mu.Lock()
	b := r.buckets[userId]
	if b == nil {
		r.mu.Unlock()
		return
	}
	b.mu.Lock()
	stillGone := len(b.conns) == 0 && b.online
	if stillGone {
		b.online = false
		b.offlineTimer = nil
		b.dead = true
		delete(r.buckets, userId)
	}
	b.mu.Unlock()
	r.mu.Unlock()

	if stillGone && r.hooks != nil {
		r.hooks.UserOffline(userId)
	}
}

// ConnectionsFor returns a snapshot of the user's open connections. Used by
// fan-out; the snapshot keeps delivery independent of registry locks.
func (r *Registry) ConnectionsFor(userId string) []*Conn {
	b := r.bucketFor(userId, false)
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	conns := make([]*Conn, 0, len(b.conns))
	for _, conn := range b.conns {
		conns = append(conns, conn)
	}
	return conns
}

// CountFor returns the user's current connection count. Never negative:
// unregister of an unknown id is a no-op.
func (r *Registry) CountFor(userId string) int {
	b := r.bucketFor(userId, false)
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}
