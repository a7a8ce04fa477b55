//go:build entalloc_nocheck
// +build entalloc_nocheck

package alloc

const checksEnabled = false

func (t *T) verifyFlushed() {}
