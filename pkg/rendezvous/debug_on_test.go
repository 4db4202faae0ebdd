//go:build debugassert

package rendezvous

import "testing"

func TestAssertRoleHomogeneousCatchesMixing(t *testing.T) {
	s := New()
	s.push(&waiter{nrelease: -1})
	s.push(&waiter{nrelease: 3}) // mixed role: corrupt

	defer func() {
		if recover() == nil {
			t.Fatal("expected assertRoleHomogeneous to panic on mixed roles")
		}
	}()
	assertRoleHomogeneous(s)
}
