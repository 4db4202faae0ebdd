//go:build !debugassert

package rendezvous

// assertRoleHomogeneous is a no-op in release builds. Build with
// -tags debugassert to enable the real check.
func assertRoleHomogeneous(s *Sema) {}
