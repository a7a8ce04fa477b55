package alloc

import (
	"github.com/histdb/entalloc"
	"github.com/histdb/entalloc/slots"
)

// ReserveEntity reserves one entity id. It is safe to call concurrently with
// other reservations and read only queries. The entity is live immediately,
// but its slot does not exist until Flush is called.
func (t *T) ReserveEntity() Entity {
	n := t.cursor.Add(-1) + 1
	if n > 0 {
		id := t.pending[n-1]
		return entalloc.New(id, t.slots.Get(id).Generation)
	}

	// the more negative the cursor, the further past the end of the slot
	// table the id is.
	return entalloc.New(newID(int64(t.slots.Len())-n), 0)
}

// ReserveEntities reserves count entity ids with a single atomic operation.
// It is safe to call concurrently with other reservations and read only
// queries. The returned Iter must be consumed before any exclusive method is
// called.
func (t *T) ReserveEntities(count uint32) Iter {
	end := t.cursor.Add(-int64(count)) + int64(count)
	start := end - int64(count)

	it := Iter{
		slots: t.slots.View(),
		ids:   t.pending[max(start, 0):max(end, 0)],
	}

	// the negative part of [start, end) maps onto new ids: -1 is the first
	// id past the end of the slot table, -2 the second, and so on.
	if start < 0 {
		base := int64(t.slots.Len())
		it.next = uint64(base - min(end, 0))
		it.end = uint64(newID(base-start-1)) + 1
	}

	return it
}

// AppendReserved reserves n entities with ReserveEntities and appends them
// to dst.
func (t *T) AppendReserved(dst []Entity, n uint32) []Entity {
	it := t.ReserveEntities(n)
	return it.Append(dst)
}

// Iter is the sequence of entities produced by ReserveEntities. Ids taken
// from the freelist come first, followed by brand new ids in ascending order.
type Iter struct {
	slots []slots.Slot
	ids   []uint32
	next  uint64
	end   uint64
	cur   Entity
}

// Len returns the number of entities remaining.
func (it *Iter) Len() int { return len(it.ids) + int(it.end-it.next) }

func (it *Iter) Next() bool {
	switch {
	case len(it.ids) > 0:
		id := it.ids[0]
		it.ids = it.ids[1:]
		it.cur = entalloc.New(id, it.slots[id].Generation)
		return true

	case it.next < it.end:
		it.cur = entalloc.New(uint32(it.next), 0)
		it.next++
		return true

	default:
		return false
	}
}

// Entity returns the entity produced by the last call to Next.
func (it *Iter) Entity() Entity { return it.cur }

// Append consumes the rest of the iterator, appending the entities to dst.
func (it *Iter) Append(dst []Entity) []Entity {
	for it.Next() {
		dst = append(dst, it.Entity())
	}
	return dst
}
