//go:build !entalloc_nocheck
// +build !entalloc_nocheck

package alloc

const checksEnabled = true

// verifyFlushed panics if there are reservations waiting for Flush. Build
// with the entalloc_nocheck tag to remove the check.
func (t *T) verifyFlushed() {
	if t.NeedsFlush() {
		panic("flush() needs to be called before this operation is legal")
	}
}
