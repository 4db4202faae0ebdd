//go:build debugassert

package notifylist

import "fmt"

// assertNotifyNotAheadOfWait panics if notify has passed wait: notify
// must never exceed wait under the less-than relation. Only compiled in
// with -tags debugassert; the caller must already hold l.lock.
func assertNotifyNotAheadOfWait(l *List) {
	w, n := l.wait.Load(), l.notify.Load()
	if w != n && less(w, n) {
		panic(fmt.Sprintf("notifylist: notify %d ahead of wait %d", n, w))
	}
}
