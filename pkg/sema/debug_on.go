//go:build debugassert

package sema

import "fmt"

// assertBucketConsistent walks b's waiter list and panics if its length
// disagrees with nwait: the two must agree at every quiescent point.
// Only compiled in with -tags debugassert; the caller must already hold
// b.lock.
func assertBucketConsistent(b *bucket) {
	n := 0
	for w := b.head; w != nil; w = w.next {
		n++
	}
	if want := int(b.nwait.Load()); n != want {
		panic(fmt.Sprintf("sema: bucket list length %d disagrees with nwait %d", n, want))
	}
}
