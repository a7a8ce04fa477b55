package testhelp

import (
	"slices"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/histdb/entalloc"
)

var (
	choiceRng  = mwc.Rand()
	shuffleRng = mwc.Rand()
)

// Coin returns true with probability num/den.
func Coin(num, den uint32) bool {
	return choiceRng.Uint32n(den) < num
}

func Uint32n(n uint32) uint32 {
	return choiceRng.Uint32n(n)
}

func Shuffle[V any](x []V) {
	for i := len(x) - 1; i > 0; i-- {
		j := shuffleRng.Uint64n(uint64(i) + 1)
		x[i], x[j] = x[j], x[i]
	}
}

// IDs returns the sorted ids of the entities.
func IDs(es []entalloc.Entity) []uint32 {
	ids := make([]uint32, 0, len(es))
	for _, e := range es {
		ids = append(ids, e.ID())
	}
	slices.Sort(ids)
	return ids
}

// Range returns the ids in [lo, hi).
func Range(lo, hi uint32) []uint32 {
	ids := make([]uint32, 0, hi-lo)
	for id := lo; id < hi; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Distinct fails the test if any two entities share an id and returns the
// set of ids.
func Distinct(tb testing.TB, es []entalloc.Entity) *roaring.Bitmap {
	tb.Helper()

	bm := roaring.New()
	for _, e := range es {
		if !bm.CheckedAdd(e.ID()) {
			tb.Fatalf("duplicate id: %v", e)
		}
	}
	assert.Equal(tb, bm.GetCardinality(), len(es))
	return bm
}
