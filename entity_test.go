package entalloc

import (
	"errors"
	"slices"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"
)

func TestEntity(t *testing.T) {
	t.Run("BitsRoundtrip", func(t *testing.T) {
		e := New(0xBAADF00D, 0xDEADBEEF)
		assert.Equal(t, e.ToBits(), uint64(0xDEADBEEFBAADF00D))
		assert.Equal(t, FromBits(e.ToBits()), e)
		assert.Equal(t, FromBits(e.ToBits()).ID(), uint32(0xBAADF00D))
		assert.Equal(t, FromBits(e.ToBits()).Generation(), uint32(0xDEADBEEF))
	})

	t.Run("BitsRoundtripRandom", func(t *testing.T) {
		rng := mwc.Rand()
		for i := 0; i < 1000; i++ {
			e := New(uint32(rng.Uint64()), uint32(rng.Uint64()>>32))
			assert.Equal(t, FromBits(e.ToBits()), e)

			bits := rng.Uint64()
			assert.Equal(t, FromBits(bits).ToBits(), bits)
		}
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, New(7, 3).String(), "7v3")
	})

	t.Run("Digest", func(t *testing.T) {
		assert.Equal(t, New(1, 2).Digest(), New(1, 2).Digest())
		assert.NotEqual(t, New(1, 2).Digest(), New(2, 1).Digest())
	})

	t.Run("MapKey", func(t *testing.T) {
		m := map[Entity]int{New(1, 0): 1, New(1, 1): 2}
		assert.Equal(t, m[New(1, 0)], 1)
		assert.Equal(t, m[New(1, 1)], 2)
		assert.Equal(t, len(m), 2)
	})
}

func TestEntityOrdering(t *testing.T) {
	// generation dominates id
	assert.That(t, New(9, 0).Less(New(0, 1)))
	assert.That(t, !New(0, 1).Less(New(9, 0)))
	assert.That(t, New(1, 5).Less(New(2, 5)))
	assert.That(t, !New(2, 5).Less(New(2, 5)))

	assert.Equal(t, EntityCmp.Compare(New(9, 0), New(0, 1)), -1)
	assert.Equal(t, EntityCmp.Compare(New(0, 1), New(9, 0)), 1)
	assert.Equal(t, EntityCmp.Compare(New(3, 3), New(3, 3)), 0)
	assert.Equal(t, EntityCmp.Compare(New(2, 3), New(3, 3)), -1)

	es := []Entity{New(0, 2), New(5, 0), New(1, 1), New(0, 0), New(3, 1)}
	slices.SortFunc(es, EntityCmp.Compare)
	assert.DeepEqual(t, es, []Entity{New(0, 0), New(5, 0), New(1, 1), New(3, 1), New(0, 2)})
}

func TestLocation(t *testing.T) {
	assert.That(t, Pending.IsPending())
	assert.Equal(t, Pending.Index, uint32(0xFFFFFFFF))
	assert.That(t, !Location{Archetype: 1, Index: 0}.IsPending())
	assert.Equal(t, Location{Archetype: 2, Index: 5}.String(), "(location 2:5)")
	assert.Equal(t, Pending.String(), "(location pending)")
}

func TestErrNoSuchEntity(t *testing.T) {
	assert.That(t, ErrNoSuchEntity != nil)
	assert.That(t, errors.Is(ErrNoSuchEntity, ErrNoSuchEntity))
}
