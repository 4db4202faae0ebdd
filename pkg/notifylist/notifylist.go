// Package notifylist implements the ticket notification list used by
// condition variables: component C of the sleep/wakeup core. Fairness
// comes from monotonically increasing tickets rather than list order —
// notify_one always wakes the smallest outstanding ticket, and wrap-around
// is handled with a signed-difference comparison, so the list stays FIFO
// even after wait/notify wrap past 2^32.
package notifylist

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/qxcheng/sleepwake/pkg/profiling"
	"github.com/qxcheng/sleepwake/pkg/rt"
)

type waiter struct {
	task   rt.Task
	ticket uint32
	next   *waiter
}

// List is the ticket notification list itself. wait and notify are both
// single-writer-per-counter (wait: any caller of Add; notify: whoever
// holds lock) monotonic counters compared with the wrap-tolerant less().
type List struct {
	wait       atomic.Uint32
	notify     atomic.Uint32
	lock       rt.Lock
	head, tail *waiter
}

// New returns a ready-to-use List.
func New() *List {
	l := &List{}
	l.lock.Init()
	return l
}

// less implements the wrap-tolerant "a happened before b" relation:
// correct whenever the unwrapped gap between a and b is under 2^31.
func less(a, b uint32) bool {
	return int32(a-b) < 0
}

// Add issues the next ticket. Lock-free; callable concurrently, including
// by callers already holding the higher-level construct's outer lock —
// this is what lets condvar.wait call Add before releasing that lock.
func (l *List) Add() uint32 {
	return l.wait.Add(1) - 1
}

func (l *List) push(w *waiter) {
	w.next = nil
	if l.tail != nil {
		l.tail.next = w
	} else {
		l.head = w
	}
	l.tail = w
}

// Wait blocks until ticket t is notified. sink (nil treated as
// profiling.Discard) receives a block-event report on wakeup when
// profiling.Rate is positive.
func (l *List) Wait(t uint32, sink profiling.Sink) {
	if sink == nil {
		sink = profiling.Discard
	}

	l.lock.Lock()
	if less(t, l.notify.Load()) {
		l.lock.Unlock()
		return
	}

	w := &waiter{task: rt.Current(), ticket: t}
	l.push(w)

	var t0 int64
	profile := profiling.Rate.Load() > 0
	if profile {
		t0 = rt.CPUTicks()
	}

	rt.ParkUnlock(w.task, &l.lock, "notifylist")

	if profile {
		sink.BlockEvent(rt.CPUTicks()-t0, 4)
	}
}

// NotifyAll wakes every waiter currently on the list.
func (l *List) NotifyAll() {
	if l.wait.Load() == l.notify.Load() {
		return
	}

	l.lock.Lock()
	head := l.head
	l.head, l.tail = nil, nil
	l.notify.Store(l.wait.Load())
	assertNotifyNotAheadOfWait(l)
	l.lock.Unlock()

	for w := head; w != nil; {
		next := w.next
		rt.Ready(w.task)
		w = next
	}
}

// NotifyOne wakes the waiter with the smallest outstanding ticket, if any.
// If that ticket hasn't made it onto the list yet (Add happened but the
// caller hasn't reached Wait), notify is still advanced past it: the
// waiter will observe the updated notify on its next check and return
// immediately without parking.
func (l *List) NotifyOne() {
	if l.wait.Load() == l.notify.Load() {
		return
	}

	l.lock.Lock()
	t := l.notify.Load()
	if t == l.wait.Load() {
		l.lock.Unlock()
		return
	}
	l.notify.Store(t + 1)
	assertNotifyNotAheadOfWait(l)

	var found, prev *waiter
	for w := l.head; w != nil; w = w.next {
		if w.ticket == t {
			found = w
			if prev == nil {
				l.head = w.next
			} else {
				prev.next = w.next
			}
			if w == l.tail {
				l.tail = prev
			}
			break
		}
		prev = w
	}
	l.lock.Unlock()

	if found != nil {
		rt.Ready(found.task)
	}
}

// SizeCheck lets a higher-level layer that mirrors List's layout in an
// opaque byte array verify the mirror still matches this package's actual
// struct size.
func SizeCheck(opaqueSize uintptr) error {
	if want := unsafe.Sizeof(List{}); opaqueSize != want {
		return fmt.Errorf("notifylist: opaque List mirror is %d bytes, want %d", opaqueSize, want)
	}
	return nil
}
