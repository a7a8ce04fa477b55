package slots

import (
	"math"
	"slices"

	"github.com/histdb/entalloc"
	"github.com/histdb/entalloc/sizeof"
)

// Slot is the per-id record: the current generation and where the entity's
// components live.
type Slot struct {
	Generation uint32
	Location   entalloc.Location
}

// Empty is the value of a freshly created slot.
var Empty = Slot{Generation: 0, Location: entalloc.Pending}

// T is a growable table of slots indexed by entity id. It never shrinks
// except through Reset.
type T struct {
	_ [0]func() // no equality

	slots []Slot
}

func (t *T) Len() int { return len(t.slots) }
func (t *T) Cap() int { return cap(t.slots) }

func (t *T) Size() uint64 {
	return 0 +
		/* slots */ sizeof.Slice(t.slots) +
		0
}

// Get returns the slot for id. The id must be less than Len.
func (t *T) Get(id uint32) *Slot { return &t.slots[id] }

func (t *T) Lookup(id uint32) (*Slot, bool) {
	if uint64(id) >= uint64(len(t.slots)) {
		return nil, false
	}
	return &t.slots[id], true
}

// Push appends an empty slot and returns its id.
func (t *T) Push() uint32 {
	id := len(t.slots)
	if uint64(id) > math.MaxUint32 {
		panic("too many entities")
	}
	t.slots = append(t.slots, Empty)
	return uint32(id)
}

// Extend appends n empty slots and returns the slice of the new ones. The
// first new slot has id equal to the previous Len.
func (t *T) Extend(n int) []Slot {
	old := len(t.slots)
	if uint64(old)+uint64(n) > math.MaxUint32+1 {
		panic("too many entities")
	}
	t.slots = slices.Grow(t.slots, n)
	for range n {
		t.slots = append(t.slots, Empty)
	}
	return t.slots[old:]
}

// Grow ensures that n more slots can be appended without reallocating.
func (t *T) Grow(n int) {
	if n > 0 {
		t.slots = slices.Grow(t.slots, n)
	}
}

// View returns the slots as a read only slice. It is invalidated by any
// mutation of the table.
func (t *T) View() []Slot { return t.slots }

// Reset drops every slot but keeps the allocated capacity.
func (t *T) Reset() { t.slots = t.slots[:0] }
