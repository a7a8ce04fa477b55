package alloc

import (
	"math"
	"sync/atomic"

	"github.com/histdb/entalloc"
	"github.com/histdb/entalloc/sizeof"
	"github.com/histdb/entalloc/slots"
)

type (
	Entity   = entalloc.Entity
	Location = entalloc.Location
)

// T allocates entity ids. The zero value is ready to use.
//
// Methods are split into two modes. ReserveEntity, ReserveEntities and the
// read only queries may be called concurrently with each other. Alloc, Free,
// Flush, Reserve, Clear and GetMut require exclusive access: they must not
// run concurrently with any other method. Locked enforces that split with a
// lock.
type T struct {
	_ [0]func() // no equality

	slots slots.T

	// pending and cursor describe three sets of ids:
	//
	//   pending: [ freelist | reserved ]
	//                       ^          ^
	//                    cursor   len(pending)
	//
	// The freelist holds ids released by Free that Alloc, ReserveEntity and
	// ReserveEntities may hand out. The reserved ids were taken from the
	// freelist by a reservation and wait for Flush. Reservations move the
	// cursor down with a single atomic subtract. When the freelist runs out
	// the cursor goes negative: -cursor ids past the end of the slot table
	// have been handed out and Flush will create slots for them.
	//
	// After Flush the cursor equals len(pending).
	pending []uint32
	cursor  atomic.Int64
}

func (t *T) Size() uint64 {
	return 0 +
		/* slots   */ t.slots.Size() +
		/* pending */ sizeof.Slice(t.pending) +
		/* cursor  */ 8 +
		0
}

// Len returns the number of live entities, counting reserved entities that
// have not been flushed.
func (t *T) Len() int {
	c := t.cursor.Load()
	return t.slots.Len() + int(max(-c, 0)) - int(max(c, 0))
}

// Extent returns the length of the slot table: ids below it have a slot,
// ids at or above it are unallocated or reserved and waiting for Flush.
func (t *T) Extent() int { return t.slots.Len() }

// NeedsFlush reports if there are reservations that Flush has not yet
// materialized.
func (t *T) NeedsFlush() bool {
	return t.cursor.Load() != int64(len(t.pending))
}

// Alloc allocates an entity id directly. The location of the returned entity
// is Pending and should be written immediately with GetMut.
func (t *T) Alloc() Entity {
	t.verifyFlushed()

	if n := len(t.pending); n > 0 {
		id := t.pending[n-1]
		t.pending = t.pending[:n-1]
		t.cursor.Store(int64(len(t.pending)))
		return entalloc.New(id, t.slots.Get(id).Generation)
	}

	return entalloc.New(t.slots.Push(), 0)
}

// Free destroys the entity, allowing its id to be reused, and returns the
// location it had. The generation of the slot wraps on overflow, so a handle
// kept across 2^32 reuses of the same id is indistinguishable from a live one.
func (t *T) Free(e Entity) (Location, error) {
	t.verifyFlushed()

	slot, ok := t.slots.Lookup(e.ID())
	if !ok || slot.Generation != e.Generation() {
		return Location{}, entalloc.ErrNoSuchEntity
	}
	slot.Generation++

	loc := slot.Location
	slot.Location = entalloc.Pending

	t.pending = append(t.pending, e.ID())
	t.cursor.Store(int64(len(t.pending)))

	return loc, nil
}

// Reserve ensures that at least additional calls to Alloc can succeed without
// reallocating the slot table.
func (t *T) Reserve(additional uint32) {
	t.verifyFlushed()

	shortfall := int64(additional) - t.cursor.Load()
	if shortfall > 0 {
		t.slots.Grow(int(shortfall))
	}
}

// Contains reports if the entity is live. Reserved entities that have not
// been flushed are live.
func (t *T) Contains(e Entity) bool {
	if slot, ok := t.slots.Lookup(e.ID()); ok {
		return slot.Generation == e.Generation()
	}
	return e.Generation() == 0 && t.reservedNew(e.ID())
}

// reservedNew reports if id is past the end of the slot table but was handed
// out by a reservation that has not been flushed.
func (t *T) reservedNew(id uint32) bool {
	n := max(-t.cursor.Load(), 0)
	return int64(id) < int64(t.slots.Len())+n
}

func (t *T) Clear() {
	t.slots.Reset()
	t.pending = t.pending[:0]
	t.cursor.Store(0)
}

// GetMut returns a pointer to the location of a live entity so that it can be
// updated. Reserved entities have no storage until Flush and are reported as
// missing.
func (t *T) GetMut(e Entity) (*Location, error) {
	slot, ok := t.slots.Lookup(e.ID())
	if !ok || slot.Generation != e.Generation() {
		return nil, entalloc.ErrNoSuchEntity
	}
	return &slot.Location, nil
}

// Get returns the location of a live entity. Entities that are reserved but
// not flushed, or that were never placed, report Pending.
func (t *T) Get(e Entity) (Location, error) {
	slot, ok := t.slots.Lookup(e.ID())
	if !ok {
		if e.Generation() == 0 && t.reservedNew(e.ID()) {
			return entalloc.Pending, nil
		}
		return Location{}, entalloc.ErrNoSuchEntity
	}
	if slot.Generation != e.Generation() {
		return Location{}, entalloc.ErrNoSuchEntity
	}
	if slot.Location.IsPending() {
		return entalloc.Pending, nil
	}
	return slot.Location, nil
}

// ResolveUnknownGen returns the entity for an id that the caller knows is
// currently allocated. It does not check liveness: for an id inside the slot
// table it returns the current generation. It panics if the id is neither in
// the slot table nor reserved.
func (t *T) ResolveUnknownGen(id uint32) Entity {
	if slot, ok := t.slots.Lookup(id); ok {
		return entalloc.New(id, slot.Generation)
	}
	if t.reservedNew(id) {
		return entalloc.New(id, 0)
	}
	panic("entity id is out of range")
}

// Flush creates slots for every entity reserved since the last Flush and
// calls init exactly once for each of them so that its location can be set.
// Brand new ids are visited first in ascending order, then ids that were
// reserved out of the freelist. A nil init leaves every location Pending.
func (t *T) Flush(init func(id uint32, loc *Location)) {
	if init == nil {
		init = func(uint32, *Location) {}
	}
	c := t.cursor.Load()

	cutoff := int(max(c, 0))
	if c < 0 {
		base := t.slots.Len()
		added := t.slots.Extend(int(-c))
		for i := range added {
			init(uint32(base+i), &added[i].Location)
		}
		t.cursor.Store(0)
	}

	for _, id := range t.pending[cutoff:] {
		init(id, &t.slots.Get(id).Location)
	}
	t.pending = t.pending[:cutoff]
}

// newID converts a position past the end of the slot table into an id,
// panicking if it does not fit in 32 bits.
func newID(v int64) uint32 {
	if v < 0 || v > math.MaxUint32 {
		panic("too many entities")
	}
	return uint32(v)
}
