package entalloc

import "github.com/zeebo/errs/v2"

// ErrNoSuchEntity is returned when a handle's generation does not match the
// current generation of its slot, or its id was never allocated.
var ErrNoSuchEntity = errs.Errorf("no such entity")
