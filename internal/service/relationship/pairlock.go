package relationship

import (
	"sync"
)

// pairLocks serializes mutations per canonical pair key. Unrelated pairs
// never contend; there is no global lock. Entries are reference counted so
// the map does not grow with every pair ever touched.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*pairLock
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*pairLock)}
}

// Lock acquires the mutex for the pair key, creating it on first use.
func (p *pairLocks) Lock(key string) {
	p.mu.Lock()
	l := p.locks[key]
	if l == nil {
		l = &pairLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the pair mutex and drops the entry once nobody holds or
// waits on it.
func (p *pairLocks) Unlock(key string) {
	p.mu.Lock()
	l := p.locks[key]
	if l == nil {
		p.mu.Unlock()
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(p.locks, key)
	}
	p.mu.Unlock()

	l.mu.Unlock()
}
