// Package rendezvous implements the value-less rendezvous semaphore:
// component B of the sleep/wakeup core. Unlike sema, it carries no
// caller-owned counter — all state (the list of pending acquirers or
// releasers) lives inline in the Sema value itself.
package rendezvous

import (
	"fmt"
	"unsafe"

	"github.com/qxcheng/sleepwake/pkg/rt"
)

// waiter is the stack-allocated record for this component: nrelease is -1
// for an acquirer, or the number of tokens still owed for a releaser.
type waiter struct {
	task     rt.Task
	nrelease int32
	next     *waiter
}

// Sema holds at most one role of waiter at a time: either every queued
// waiter is an acquirer (nrelease == -1) or every one is a releaser
// (nrelease > 0). A caller always drains opposite-role waiters before
// enqueuing itself, so the two roles never mix.
type Sema struct {
	lock       rt.Lock
	head, tail *waiter
}

// New returns a ready-to-use Sema. Must be called before the first
// Acquire/Release; there is no zero-value form, matching the explicit-Init
// convention of the rt.Lock it embeds.
func New() *Sema {
	s := &Sema{}
	s.lock.Init()
	return s
}

func (s *Sema) push(w *waiter) {
	w.next = nil
	if s.tail != nil {
		s.tail.next = w
	} else {
		s.head = w
	}
	s.tail = w
}

func (s *Sema) pop() *waiter {
	w := s.head
	s.head = w.next
	if s.head == nil {
		s.tail = nil
	}
	w.next = nil
	return w
}

// Acquire blocks until a releaser provides a token.
func (s *Sema) Acquire() {
	s.lock.Lock()
	if s.head != nil && s.head.nrelease > 0 {
		r := s.head
		r.nrelease--
		var drained *waiter
		if r.nrelease == 0 {
			drained = s.pop()
		}
		assertRoleHomogeneous(s)
		s.lock.Unlock()
		if drained != nil {
			rt.Ready(drained.task)
		}
		return
	}

	w := &waiter{task: rt.Current(), nrelease: -1}
	s.push(w)
	assertRoleHomogeneous(s)
	rt.ParkUnlock(w.task, &s.lock, "rendezvous_acquire")
}

// Release provides n tokens, blocking until all n have been consumed by
// acquirers.
func (s *Sema) Release(n int32) {
	s.lock.Lock()

	var woken []*waiter
	for n > 0 && s.head != nil && s.head.nrelease == -1 {
		woken = append(woken, s.pop())
		n--
	}

	if n == 0 {
		assertRoleHomogeneous(s)
		s.lock.Unlock()
		for _, w := range woken {
			rt.Ready(w.task)
		}
		return
	}

	self := &waiter{task: rt.Current(), nrelease: n}
	s.push(self)
	assertRoleHomogeneous(s)
	s.lock.Unlock()

	for _, w := range woken {
		rt.Ready(w.task)
	}
	rt.Park(self.task)
}

// SizeCheck lets a higher-level layer that mirrors Sema's layout in an
// opaque byte array (rather than importing this package directly) verify
// the mirror still matches this package's actual struct size.
func SizeCheck(opaqueSize uintptr) error {
	if want := unsafe.Sizeof(Sema{}); opaqueSize != want {
		return fmt.Errorf("rendezvous: opaque Sema mirror is %d bytes, want %d", opaqueSize, want)
	}
	return nil
}
