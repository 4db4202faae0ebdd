// Package sema implements the counted semaphore keyed by the address of a
// caller-supplied 32-bit counter: component A of the sleep/wakeup core.
// Mutex and RWMutex (see pkg/syncx) are built on it. Acquire first tries a
// lock-free CAS loop on the caller's own counter and only falls back to a
// bucket of the sema table when the counter is zero.
package sema

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/qxcheng/sleepwake/pkg/profiling"
	"github.com/qxcheng/sleepwake/pkg/rt"
)

// tableSize is prime so that the bucket a given address hashes to doesn't
// correlate with common allocation strides.
const tableSize = 251

// waiter is a stack-allocated record: valid only between the moment its
// owning goroutine enqueues it and the moment a releaser dequeues and
// readies it.
type waiter struct {
	task        rt.Task
	addr        *uint32
	releaseTime int64 // 0: profiling off; -1: stamp on wakeup; else the stamp
	prev, next  *waiter
}

type bucket struct {
	lock       rt.Lock
	head, tail *waiter
	nwait      atomic.Uint32
}

// table is the process-wide sema table: allocated once, never destroyed,
// each bucket padded to its own cache line so that contention on one
// address's bucket doesn't false-share with its neighbors.
var table [tableSize]struct {
	b   bucket
	pad [unsafe.Sizeof(cpu.CacheLinePad{}) - unsafe.Sizeof(bucket{})]byte
}

func init() {
	for i := range table {
		table[i].b.lock.Init()
	}
}

func root(addr *uint32) *bucket {
	h := (uintptr(unsafe.Pointer(addr)) >> 3) % tableSize
	return &table[h].b
}

func cansemacquire(addr *uint32) bool {
	for {
		v := atomic.LoadUint32(addr)
		if v == 0 {
			return false
		}
		if atomic.CompareAndSwapUint32(addr, v, v-1) {
			return true
		}
	}
}

func (b *bucket) enqueue(w *waiter) {
	w.prev = b.tail
	w.next = nil
	if b.tail != nil {
		b.tail.next = w
	} else {
		b.head = w
	}
	b.tail = w
}

func (b *bucket) remove(w *waiter) {
	if w.prev != nil {
		w.prev.next = w.next
	} else {
		b.head = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	} else {
		b.tail = w.prev
	}
	w.prev, w.next = nil, nil
}

// Acquire attempts to decrement the 32-bit counter at addr, blocking until a
// releaser hands over a slot if it is already zero. sink receives a
// block-event report when profile is true and profiling.Rate is positive; a
// nil sink is treated as profiling.Discard.
func Acquire(addr *uint32, profile bool, sink profiling.Sink) {
	if cansemacquire(addr) {
		return
	}
	if sink == nil {
		sink = profiling.Discard
	}

	w := &waiter{task: rt.Current(), addr: addr}
	var t0 int64
	if profile && profiling.Rate.Load() > 0 {
		t0 = rt.CPUTicks()
		w.releaseTime = -1
	}

	b := root(addr)
	for {
		b.lock.Lock()
		assertBucketConsistent(b)
		// Set nwait before the retry below so that any release racing
		// in after this point is guaranteed to notice us (the nwait
		// barrier).
		b.nwait.Add(1)
		if cansemacquire(addr) {
			b.nwait.Add(^uint32(0))
			b.lock.Unlock()
			break
		}
		b.enqueue(w)
		assertBucketConsistent(b)
		rt.ParkUnlock(w.task, &b.lock, "semacquire")
		if cansemacquire(addr) {
			break
		}
		// Stolen: someone else's acquire won the slot between our
		// wakeup and this check. Loop back and re-enqueue.
	}

	if w.releaseTime > 0 {
		sink.BlockEvent(w.releaseTime-t0, 4)
	}
}

// Release increments the counter at addr and, if a waiter is sleeping on
// this address, wakes the first one found in this bucket's list.
func Release(addr *uint32) {
	atomic.AddUint32(addr, 1)

	b := root(addr)
	// This check must happen after the increment above, to avoid a
	// missed wakeup symmetric with the nwait barrier in Acquire.
	if b.nwait.Load() == 0 {
		return
	}

	b.lock.Lock()
	if b.nwait.Load() == 0 {
		// Already consumed by a concurrent acquirer's fast path.
		b.lock.Unlock()
		return
	}

	var found *waiter
	for w := b.head; w != nil; w = w.next {
		if w.addr == addr {
			found = w
			break
		}
	}
	if found == nil {
		// A different address hashed into this bucket filled the list.
		b.lock.Unlock()
		return
	}
	b.nwait.Add(^uint32(0))
	b.remove(found)
	assertBucketConsistent(b)
	b.lock.Unlock()

	if found.releaseTime != 0 {
		found.releaseTime = rt.CPUTicks()
	}
	rt.Ready(found.task)
}

// NWait reports the current bucket's waiter count for the given address,
// for tests that need to observe the nwait barrier directly.
func NWait(addr *uint32) uint32 {
	return root(addr).nwait.Load()
}

// BucketSize reports the current size of the internal bucket struct, for
// an embedder that wants to capture a known-good value to mirror (the
// mirror itself is normally a separately-maintained constant that can
// drift from this package's actual layout across builds — that drift is
// exactly what SizeCheck guards against).
func BucketSize() uintptr {
	return unsafe.Sizeof(bucket{})
}

// SizeCheck lets an embedder that mirrors bucket's layout in an opaque
// byte array (rather than importing this package) verify the mirror still
// matches at first use, instead of silently corrupting memory on drift.
func SizeCheck(opaqueBucketSize uintptr) error {
	if want := unsafe.Sizeof(bucket{}); opaqueBucketSize != want {
		return fmt.Errorf("sema: opaque bucket mirror is %d bytes, want %d", opaqueBucketSize, want)
	}
	return nil
}
