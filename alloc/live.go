package alloc

import "github.com/RoaringBitmap/roaring/v2"

// Live returns the set of ids of every live entity, including reserved
// entities that have not been flushed. Ids sitting in the freelist are not in
// the set.
func (t *T) Live() *roaring.Bitmap {
	c := t.cursor.Load()

	bm := roaring.New()
	bm.AddRange(0, uint64(t.slots.Len())+uint64(max(-c, 0)))
	for _, id := range t.pending[:max(c, 0)] {
		bm.Remove(id)
	}
	return bm
}
