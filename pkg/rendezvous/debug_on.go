//go:build debugassert

package rendezvous

import "fmt"

// assertRoleHomogeneous panics if s's waiter list mixes acquirers
// (nrelease == -1) with releasers (nrelease > 0): at most one role can
// be present at a time. Only compiled in with -tags debugassert; the
// caller must already hold s.lock.
func assertRoleHomogeneous(s *Sema) {
	if s.head == nil {
		return
	}
	acquirer := s.head.nrelease == -1
	for w := s.head; w != nil; w = w.next {
		if (w.nrelease == -1) != acquirer {
			panic(fmt.Sprintf("rendezvous: mixed roles in waiter list (nrelease=%d alongside a %v list)", w.nrelease, acquirer))
		}
	}
}
