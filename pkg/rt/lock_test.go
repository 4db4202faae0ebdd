package rt

import (
	"sync"
	"testing"
	"time"
)

func TestLockMutualExclusion(t *testing.T) {
	var l Lock
	l.Init()

	var counter int
	var wg sync.WaitGroup
	const n = 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			l.Lock()
			counter++
			l.Unlock()
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("goroutines never finished; possible deadlock")
	}
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestLockContendedHandoff(t *testing.T) {
	var l Lock
	l.Init()

	l.Lock()
	unlocked := make(chan struct{})
	go func() {
		l.Lock()
		close(unlocked)
		l.Unlock()
	}()

	select {
	case <-unlocked:
		t.Fatal("second locker acquired before the first released")
	case <-time.After(30 * time.Millisecond):
	}

	l.Unlock()
	select {
	case <-unlocked:
	case <-time.After(2 * time.Second):
		t.Fatal("second locker never acquired after release")
	}
}
