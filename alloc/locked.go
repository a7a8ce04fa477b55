package alloc

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Locked wraps a T with a reader/writer lock so that callers do not have to
// arrange the shared and exclusive phases themselves. Reservations and
// queries hold the read lock and still only contend on the atomic cursor.
// Everything that mutates the slot table or the freelist holds the write
// lock. The zero value is ready to use.
type Locked struct {
	mu sync.RWMutex
	t  T
}

func (l *Locked) ReserveEntity() Entity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.t.ReserveEntity()
}

// AppendReserved reserves n entities and appends them to dst. The iterator is
// fully consumed while the read lock is held.
func (l *Locked) AppendReserved(dst []Entity, n uint32) []Entity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.t.AppendReserved(dst, n)
}

func (l *Locked) Contains(e Entity) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.t.Contains(e)
}

func (l *Locked) Get(e Entity) (Location, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.t.Get(e)
}

func (l *Locked) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.t.Len()
}

func (l *Locked) Live() *roaring.Bitmap {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.t.Live()
}

func (l *Locked) Alloc() Entity {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.t.Alloc()
}

func (l *Locked) Free(e Entity) (Location, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.t.Free(e)
}

// Set writes the location of a live entity.
func (l *Locked) Set(e Entity, loc Location) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.t.GetMut(e)
	if err != nil {
		return err
	}
	*p = loc
	return nil
}

// Flush materializes outstanding reservations. init runs with the write lock
// held and must not call back into l.
func (l *Locked) Flush(init func(id uint32, loc *Location)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.t.Flush(init)
}

func (l *Locked) Reserve(additional uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.t.Reserve(additional)
}

func (l *Locked) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.t.Clear()
}

// Exclusive runs fn with the write lock held, giving it the whole allocator.
func (l *Locked) Exclusive(fn func(t *T)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fn(&l.t)
}
