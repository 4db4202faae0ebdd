//go:build !debugassert

package sema

// assertBucketConsistent is a no-op in release builds. Build with
// -tags debugassert to enable the real check.
func assertBucketConsistent(b *bucket) {}
