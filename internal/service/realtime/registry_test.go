package realtime

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type hookRecorder struct {
	mu      sync.Mutex
	online  []string
	offline []string
}

func (h *hookRecorder) UserOnline(userId string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.online = append(h.online, userId)
}

func (h *hookRecorder) UserOffline(userId string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.offline = append(h.offline, userId)
}

func (h *hookRecorder) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.online), len(h.offline)
}

func TestRegistryCountsConnections(t *testing.T) {
	registry := NewRegistry(0)

	registry.Register(NewConn("u1", "c1", nil))
	registry.Register(NewConn("u1", "c2", nil))
	registry.Register(NewConn("u2", "c3", nil))

	if got := registry.CountFor("u1"); got != 2 {
		t.Fatalf("CountFor(u1) = %d, want 2", got)
	}
	if got := registry.CountFor("u2"); got != 1 {
		t.Fatalf("CountFor(u2) = %d, want 1", got)
	}

	registry.Unregister("c1")
	if got := registry.CountFor("u1"); got != 1 {
		t.Fatalf("CountFor(u1) after unregister = %d, want 1", got)
	}
}

func TestRegistryConcurrentAccounting(t *testing.T) {
	registry := NewRegistry(0)
	const conns = 100

	var wg sync.WaitGroup
	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			registry.Register(NewConn("u1", fmt.Sprintf("c%d", i), nil))
		}(i)
	}
	wg.Wait()

	if got := registry.CountFor("u1"); got != conns {
		t.Fatalf("CountFor = %d, want %d", got, conns)
	}

	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			registry.Unregister(fmt.Sprintf("c%d", i))
		}(i)
	}
	wg.Wait()

	if got := registry.CountFor("u1"); got != 0 {
		t.Fatalf("CountFor after unregister all = %d, want 0", got)
	}
}

func TestRegistryUnknownUnregisterIsNoop(t *testing.T) {
	registry := NewRegistry(0)
	registry.Unregister("nope")
	registry.Register(NewConn("u1", "c1", nil))
	registry.Unregister("c1")
	registry.Unregister("c1")
	if got := registry.CountFor("u1"); got != 0 {
		t.Fatalf("CountFor = %d, want 0", got)
	}
}

func TestRegistryOnlineEdgeFiresOnce(t *testing.T) {
	registry := NewRegistry(0)
	hooks := &hookRecorder{}
	registry.SetHooks(hooks)

	registry.Register(NewConn("u1", "c1", nil))
	registry.Register(NewConn("u1", "c2", nil))

	online, offline := hooks.counts()
	if online != 1 {
		t.Fatalf("online transitions = %d, want 1", online)
	}
	if offline != 0 {
		t.Fatalf("offline transitions = %d, want 0", offline)
	}

	// closing one of two connections is not an offline transition
	registry.Unregister("c1")
	if _, offline = hooks.counts(); offline != 0 {
		t.Fatalf("offline transitions = %d, want 0", offline)
	}

	registry.Unregister("c2")
	if _, offline = hooks.counts(); offline != 1 {
		t.Fatalf("offline transitions = %d, want 1", offline)
	}
}

func TestRegistryDebounceCancelledByReconnect(t *testing.T) {
	registry := NewRegistry(30 * time.Millisecond)
	hooks := &hookRecorder{}
	registry.SetHooks(hooks)

	registry.Register(NewConn("u1", "c1", nil))
	registry.Unregister("c1")

	// reconnect inside the debounce window
	registry.Register(NewConn("u1", "c2", nil))
	time.Sleep(60 * time.Millisecond)

	online, offline := hooks.counts()
	if offline != 0 {
		t.Fatalf("offline transitions = %d, want 0 after quick reconnect", offline)
	}
	// and no duplicate online either, the user never went offline
	if online != 1 {
		t.Fatalf("online transitions = %d, want 1", online)
	}
}

func TestRegistryDebouncedOfflineFires(t *testing.T) {
	registry := NewRegistry(20 * time.Millisecond)
	hooks := &hookRecorder{}
	registry.SetHooks(hooks)

	registry.Register(NewConn("u1", "c1", nil))
	registry.Unregister("c1")

	time.Sleep(60 * time.Millisecond)
	if _, offline := hooks.counts(); offline != 1 {
		t.Fatalf("offline transitions = %d, want 1", offline)
	}

	// the next connection is a fresh online edge
	registry.Register(NewConn("u1", "c2", nil))
	if online, _ := hooks.counts(); online != 2 {
		t.Fatalf("online transitions = %d, want 2", online)
	}
}

func (r *Registry) bucketCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buckets)
}

func TestRegistryReleasesEmptyBuckets(t *testing.T) {
	registry := NewRegistry(0)

	for i := 0; i < 50; i++ {
		userId := fmt.Sprintf("u%d", i)
		connId := fmt.Sprintf("c%d", i)
		registry.Register(NewConn(userId, connId, nil))
		registry.Unregister(connId)
	}

	if got := registry.bucketCount(); got != 0 {
		t.Fatalf("buckets retained for offline users = %d, want 0", got)
	}

	// a fresh registration after cleanup works normally
	registry.Register(NewConn("u0", "c_new", nil))
	if got := registry.CountFor("u0"); got != 1 {
		t.Fatalf("CountFor after re-register = %d, want 1", got)
	}
	if got := registry.bucketCount(); got != 1 {
		t.Fatalf("buckets = %d, want 1", got)
	}
}

func TestRegistryDebouncedCleanupKeepsReconnects(t *testing.T) {
	registry := NewRegistry(20 * time.Millisecond)

	registry.Register(NewConn("u1", "c1", nil))
	registry.Unregister("c1")

	// reconnect inside the window keeps the bucket alive
	registry.Register(NewConn("u1", "c2", nil))
	time.Sleep(60 * time.Millisecond)
	if got := registry.CountFor("u1"); got != 1 {
		t.Fatalf("CountFor = %d, want 1", got)
	}
	if got := registry.bucketCount(); got != 1 {
		t.Fatalf("buckets = %d, want 1", got)
	}

	// once the debounced offline lands the bucket goes away
	registry.Unregister("c2")
	time.Sleep(60 * time.Millisecond)
	if got := registry.bucketCount(); got != 0 {
		t.Fatalf("buckets after debounced offline = %d, want 0", got)
	}
}
