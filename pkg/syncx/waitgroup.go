package syncx

import "github.com/qxcheng/sleepwake/pkg/rendezvous"

// WaitGroup waits for a collection of goroutines to finish, same contract
// as sync.WaitGroup, built on pkg/rendezvous: the counter is guarded by a
// plain Mutex (this is a thin client, not a lock-free re-implementation),
// and the Add call that brings the counter to zero releases every
// goroutine blocked in Wait with a single bulk rendezvous_release.
type WaitGroup struct {
	mu      Mutex
	counter int
	waiters int32
	sem     *rendezvous.Sema
}

// NewWaitGroup returns a WaitGroup with a counter of zero.
func NewWaitGroup() *WaitGroup {
	return &WaitGroup{mu: Mutex{state: 1}, sem: rendezvous.New()}
}

// Add adds delta, which may be negative, to the WaitGroup counter. If the
// counter reaches zero, every goroutine blocked in Wait is released.
func (wg *WaitGroup) Add(delta int) {
	wg.mu.Lock()
	wg.counter += delta
	if wg.counter < 0 {
		wg.mu.Unlock()
		panic("syncx: negative WaitGroup counter")
	}
	var release int32
	if wg.counter == 0 {
		release, wg.waiters = wg.waiters, 0
	}
	wg.mu.Unlock()

	if release > 0 {
		wg.sem.Release(release)
	}
}

// Done decrements the WaitGroup counter by one.
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Wait blocks until the WaitGroup counter is zero.
func (wg *WaitGroup) Wait() {
	wg.mu.Lock()
	if wg.counter == 0 {
		wg.mu.Unlock()
		return
	}
	wg.waiters++
	wg.mu.Unlock()
	wg.sem.Acquire()
}
