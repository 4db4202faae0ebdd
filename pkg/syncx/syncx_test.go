package syncx

import (
	"sync"
	"testing"
	"time"
)

// Using sema to implement a 1-slot mutex, no two critical sections
// overlap for any interleaving.
func TestMutexMutualExclusion(t *testing.T) {
	m := NewMutex()
	var active int32
	var overlapped bool
	var wg sync.WaitGroup

	const n = 64
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.Lock()
			active++
			if active > 1 {
				overlapped = true
			}
			active--
			m.Unlock()
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("mutex holders never converged")
	}
	if overlapped {
		t.Fatal("two critical sections overlapped")
	}
}

func TestWaitGroup(t *testing.T) {
	wg := NewWaitGroup()
	const n = 20
	wg.Add(n)

	var done int32
	for i := 0; i < n; i++ {
		go func() {
			done++
			wg.Done()
		}()
	}

	waitDone := make(chan struct{})
	go func() { wg.Wait(); close(waitDone) }()
	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitGroup never released Wait")
	}
}

func TestRWMutexExcludesWriter(t *testing.T) {
	rw := NewRWMutex()
	rw.RLock()

	writerDone := make(chan struct{})
	go func() {
		rw.Lock()
		close(writerDone)
		rw.Unlock()
	}()

	select {
	case <-writerDone:
		t.Fatal("writer acquired while a reader held the lock")
	case <-time.After(30 * time.Millisecond):
	}

	rw.RUnlock()
	select {
	case <-writerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("writer never acquired after the reader released")
	}
}

func TestCondWaitSignal(t *testing.T) {
	mu := Mutex{state: 1}
	c := NewCond(&mu)

	ready := false
	waiterDone := make(chan struct{})
	go func() {
		mu.Lock()
		for !ready {
			c.Wait()
		}
		mu.Unlock()
		close(waiterDone)
	}()

	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	ready = true
	mu.Unlock()
	c.Signal()

	select {
	case <-waiterDone:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never woke after Signal")
	}
}

func TestCondBroadcast(t *testing.T) {
	mu := Mutex{state: 1}
	c := NewCond(&mu)

	const n = 10
	ready := false
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			mu.Lock()
			for !ready {
				c.Wait()
			}
			mu.Unlock()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	c.Broadcast()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not every waiter woke after Broadcast")
	}
}
