//go:build debugassert

package sema

import "testing"

func TestAssertBucketConsistentCatchesCorruption(t *testing.T) {
	b := &bucket{}
	b.lock.Init()
	b.nwait.Store(1) // no waiter actually enqueued: inconsistent

	defer func() {
		if recover() == nil {
			t.Fatal("expected assertBucketConsistent to panic on a corrupt bucket")
		}
	}()
	assertBucketConsistent(b)
}
