package syncx

import (
	"sync/atomic"

	"github.com/qxcheng/sleepwake/pkg/sema"
)

// RWMutex is a reader/writer mutual exclusion lock built directly on
// pkg/sema: a Mutex excludes concurrent writers, and a reader-count-gated
// slot lets the last reader to leave hand off to a blocked writer — the
// same composition sync.RWMutex itself uses over the runtime's counted
// semaphore.
type RWMutex struct {
	w          Mutex
	readerSlot uint32 // released once per reader a waiting writer must drain
	readers    int32  // live reader count; goes negative while a writer waits
}

const rwmutexMaxReaders = 1 << 30

// NewRWMutex returns an unlocked RWMutex.
func NewRWMutex() *RWMutex {
	return &RWMutex{w: Mutex{state: 1}}
}

// RLock acquires rw for reading.
func (rw *RWMutex) RLock() {
	if atomic.AddInt32(&rw.readers, 1) < 0 {
		// A writer is waiting; queue behind it instead of barging.
		sema.Acquire(&rw.readerSlot, false, nil)
	}
}

// RUnlock releases a read lock.
func (rw *RWMutex) RUnlock() {
	if atomic.AddInt32(&rw.readers, -1) < 0 {
		sema.Release(&rw.readerSlot)
	}
}

// Lock acquires rw for writing, excluding both other writers and readers.
func (rw *RWMutex) Lock() {
	rw.w.Lock()
	r := atomic.AddInt32(&rw.readers, -rwmutexMaxReaders) + rwmutexMaxReaders
	for ; r > 0; r-- {
		sema.Acquire(&rw.readerSlot, false, nil)
	}
}

// Unlock releases a write lock.
func (rw *RWMutex) Unlock() {
	r := atomic.AddInt32(&rw.readers, rwmutexMaxReaders)
	for i := int32(0); i < r; i++ {
		sema.Release(&rw.readerSlot)
	}
	rw.w.Unlock()
}
