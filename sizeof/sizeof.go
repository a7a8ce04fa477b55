package sizeof

import "unsafe"

// Slice returns the bytes held by v: the slice header plus its full
// capacity, since the tables here grow ahead of their length.
func Slice[T any](v []T) uint64 {
	return 24 + uint64(unsafe.Sizeof(*new(T)))*uint64(cap(v))
}
