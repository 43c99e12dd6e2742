package relationship

import (
	"sync"
	"testing"
)

func TestPairLocksMutualExclusion(t *testing.T) {
	locks := newPairLocks()
	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("a:b")
			counter++
			locks.Unlock("a:b")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
}

func TestPairLocksIndependentPairs(t *testing.T) {
	locks := newPairLocks()
	locks.Lock("a:b")
	defer locks.Unlock("a:b")

	done := make(chan struct{})
	go func() {
		locks.Lock("c:d")
		locks.Unlock("c:d")
		close(done)
	}()
	<-done
}

func TestPairLocksEntriesReleased(t *testing.T) {
	locks := newPairLocks()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("x:y")
			locks.Unlock("x:y")
		}()
	}
	wg.Wait()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Fatalf("lock map holds %d entries after release, want 0", len(locks.locks))
	}
}
