package entalloc

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

var le = binary.LittleEndian

// Entity is a lightweight handle to a logical entity: an id that indexes the
// slot table plus the generation of that slot at the time the handle was
// issued. A handle is live only while its generation matches the slot.
type Entity struct {
	generation uint32
	id         uint32
}

func New(id, generation uint32) Entity { return Entity{generation: generation, id: id} }

// ID returns the transiently unique identifier of the entity. No two live
// entities share an id, but the ids of dead entities are reused.
func (e Entity) ID() uint32         { return e.id }
func (e Entity) Generation() uint32 { return e.generation }

// ToBits packs the entity into a single integer with the generation in the
// high 32 bits. The value only identifies entities within the same running
// process and must not be persisted.
func (e Entity) ToBits() uint64 { return uint64(e.generation)<<32 | uint64(e.id) }

// FromBits is the inverse of ToBits.
func FromBits(bits uint64) Entity {
	return Entity{
		generation: uint32(bits >> 32),
		id:         uint32(bits),
	}
}

func (e Entity) Digest() uint64 {
	var buf [8]byte
	le.PutUint64(buf[:], e.ToBits())
	return xxh3.Hash(buf[:])
}

func (e Entity) String() string { return fmt.Sprintf("%dv%d", e.id, e.generation) }

func (e Entity) Less(f Entity) bool { return EntityCmp.Less(e, f) }

//
// ordering is by generation first, then by id
//

type entityCmp struct{}

var EntityCmp entityCmp

func (entityCmp) Compare(a, b Entity) int {
	switch {
	case a.generation < b.generation:
		return -1
	case a.generation > b.generation:
		return 1
	case a.id < b.id:
		return -1
	case a.id > b.id:
		return 1
	}
	return 0
}

func (entityCmp) Less(a, b Entity) bool {
	if a.generation != b.generation {
		return a.generation < b.generation
	}
	return a.id < b.id
}
