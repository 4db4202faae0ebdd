//go:build !debugassert

package notifylist

// assertNotifyNotAheadOfWait is a no-op in release builds. Build with
// -tags debugassert to enable the real check.
func assertNotifyNotAheadOfWait(l *List) {}
