package syncx

import "github.com/qxcheng/sleepwake/pkg/notifylist"

// Locker matches sync.Locker: anything with Lock/Unlock, so a Cond can
// wrap a Mutex, an RWMutex's write or read half, or a caller's own lock.
type Locker interface {
	Lock()
	Unlock()
}

// Cond implements condvar.Wait/Signal/Broadcast directly on
// pkg/notifylist: Add is called under the caller's outer lock, before
// that lock is released, so a Signal/Broadcast racing in between
// L.Unlock() and the notifylist enqueue can never be missed — it simply
// advances notify past a ticket that hasn't reached the list yet, and
// Wait's list-append is done while notifylist's own internal lock (not
// L) is held.
type Cond struct {
	L    Locker
	list *notifylist.List
}

// NewCond returns a Cond associated with the given Locker.
func NewCond(l Locker) *Cond {
	return &Cond{L: l, list: notifylist.New()}
}

// Wait atomically unlocks c.L and suspends the calling goroutine until
// Signal or Broadcast wakes it, then re-locks c.L before returning —
// matching the sync.Cond contract.
func (c *Cond) Wait() {
	ticket := c.list.Add()
	c.L.Unlock()
	c.list.Wait(ticket, nil)
	c.L.Lock()
}

// Signal wakes one goroutine waiting on c, if any.
func (c *Cond) Signal() {
	c.list.NotifyOne()
}

// Broadcast wakes every goroutine waiting on c.
func (c *Cond) Broadcast() {
	c.list.NotifyAll()
}
