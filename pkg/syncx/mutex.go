// Package syncx contains thin higher-level synchronization types built
// directly on pkg/sema, pkg/rendezvous, and pkg/notifylist. Mutex,
// RWMutex, WaitGroup, and Cond are the core's clients, not part of it —
// they exist only to give a realizable 1-slot mutex and a condvar built
// on the ticket notification list something concrete to exercise.
package syncx

import "github.com/qxcheng/sleepwake/pkg/sema"

// Mutex is a 1-slot counted semaphore: the simplest possible client of
// pkg/sema, and the vehicle for exercising mutual-exclusion realizability
// end to end.
type Mutex struct {
	state uint32 // 1: unlocked, 0: locked
}

// NewMutex returns an unlocked Mutex.
func NewMutex() *Mutex {
	return &Mutex{state: 1}
}

// Lock acquires m, blocking until it is available.
func (m *Mutex) Lock() {
	sema.Acquire(&m.state, false, nil)
}

// Unlock releases m. Unlocking an already-unlocked Mutex is a programmer
// error, same as sync.Mutex.
func (m *Mutex) Unlock() {
	sema.Release(&m.state)
}
