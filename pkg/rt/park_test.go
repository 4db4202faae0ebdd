package rt

import (
	"testing"
	"time"
)

func TestReadyBeforePark(t *testing.T) {
	task := Current()
	// Ready races ahead of Park: the wakeup must be buffered, not lost.
	Ready(task)

	done := make(chan struct{})
	go func() {
		Park(task)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park never returned despite an earlier Ready")
	}
}

func TestParkUnlockReleasesLock(t *testing.T) {
	var l Lock
	l.Init()
	l.Lock()

	task := Current()
	unlocked := make(chan struct{})
	go func() {
		l.Lock()
		close(unlocked)
		l.Unlock()
	}()

	parkReturned := make(chan struct{})
	go func() {
		ParkUnlock(task, &l, "test")
		close(parkReturned)
	}()

	select {
	case <-unlocked:
	case <-time.After(time.Second):
		t.Fatal("ParkUnlock never released the lock")
	}

	Ready(task)
	select {
	case <-parkReturned:
	case <-time.After(time.Second):
		t.Fatal("Park half of ParkUnlock never returned")
	}
}
