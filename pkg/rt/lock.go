// Package rt provides the small set of runtime collaborators that the
// sema, rendezvous, and notifylist packages treat as external: a handle
// for the calling goroutine, the park/unpark pair that suspends and
// resumes it, a monotonic tick source, and the spin/sleep lock guarding
// each package's internal waiter list.
package rt

import (
	"runtime"
	"sync/atomic"
)

// activeSpin is how many times a contended Lock busy-spins on multiple
// processors before yielding the P; activeSpinCnt is the number of
// iterations of each busy-spin round; passiveSpin is how many further
// rounds Lock yields the P with runtime.Gosched before giving up and
// parking on the channel. Three phases, same shape as the real runtime's
// own lock2 (speculative grab, bounded active spin, bounded passive spin,
// then semaphore sleep) — the multiprocessor-only gate on active spin
// (spinning alone on a single P just delays the only goroutine that could
// release the lock) carries over too.
const (
	activeSpin    = 4
	activeSpinCnt = 30
	passiveSpin   = 1
)

// Lock is a try-lock-first, spin-second, channel-parking-third mutex: an
// uncontended Lock/Unlock pair touches only an atomic int32, a briefly
// contended one resolves with a few rounds of spinning, and only a
// genuinely busy Lock parks a goroutine on a capacity-1 channel. It plays
// the role of the "intrusive spin/sleep lock primitive" that sema,
// rendezvous, and notifylist use to guard their waiter lists.
type Lock struct {
	v  int32
	ch chan struct{}
}

// Init prepares l for use. Must be called once, before any Lock/Unlock,
// typically from the owning package's init() or constructor.
func (l *Lock) Init() {
	l.v = 1
	l.ch = make(chan struct{}, 1)
}

// Lock acquires l, blocking until it is available.
func (l *Lock) Lock() {
	if atomic.AddInt32(&l.v, -1) == 0 {
		return
	}

	spin := 0
	if runtime.GOMAXPROCS(0) > 1 {
		spin = activeSpin
	}
	for i := 0; ; i++ {
		if v := atomic.LoadInt32(&l.v); v >= 0 && atomic.SwapInt32(&l.v, -1) == 1 {
			return
		}
		switch {
		case i < spin:
			for s := 0; s < activeSpinCnt; s++ {
				// Busy-spin: the lock is expected to free up shortly and
				// there's another P free to do it on.
			}
		case i < spin+passiveSpin:
			runtime.Gosched()
		default:
			<-l.ch
			i = -1 // restart the spin phases; contention may have eased
		}
	}
}

// Unlock releases l. Unlocking an already-unlocked Lock is a programmer
// error and left undefined, matching the spin/sleep lock contract of the
// collaborators that embed it.
func (l *Lock) Unlock() {
	if atomic.SwapInt32(&l.v, 1) == 0 {
		return
	}
	select {
	case l.ch <- struct{}{}:
	default:
	}
}
