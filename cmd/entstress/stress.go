package main

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/errs/v2"
	"github.com/zeebo/mwc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/histdb/entalloc"
	"github.com/histdb/entalloc/alloc"
)

type Stats struct {
	Rounds   int
	Reserved int
	Recycled int // reservations served from the freelist
	Flushed  int
	Freed    int
	Live     int
}

// stress runs cfg.Rounds rounds against a fresh allocator. Each round has a
// shared phase where workers reserve entities in parallel, a verification
// of the ids they received, an exclusive flush and a random release of live
// entities to refill the freelist.
func stress(ctx context.Context, cfg Config, log *zap.Logger) (Stats, error) {
	var (
		st  Stats
		l   alloc.Locked
		rng = mwc.Rand()
	)

	l.Reserve(uint32(cfg.Preallocate))
	live := make([]entalloc.Entity, 0, cfg.Preallocate)
	for range cfg.Preallocate {
		e := l.Alloc()
		if err := l.Set(e, entalloc.Location{Archetype: 1, Index: e.ID()}); err != nil {
			return st, errs.Wrap(err)
		}
		live = append(live, e)
	}

	for round := range cfg.Rounds {
		if err := ctx.Err(); err != nil {
			return st, errs.Wrap(err)
		}
		start := time.Now()

		var (
			extent   int
			freelist *roaring.Bitmap
		)
		l.Exclusive(func(a *alloc.T) {
			extent = a.Extent()
			freelist = roaring.New()
			freelist.AddRange(0, uint64(extent))
			freelist.AndNot(a.Live())
		})

		reserved, err := reserve(ctx, &l, cfg)
		if err != nil {
			return st, err
		}

		recycled, err := verify(reserved, extent, freelist)
		if err != nil {
			return st, errs.Errorf("round %d: %v", round, err)
		}

		flushed := 0
		l.Flush(func(id uint32, loc *entalloc.Location) {
			flushed++
			*loc = entalloc.Location{Archetype: 1, Index: id}
		})
		if flushed != len(reserved) {
			return st, errs.Errorf("round %d: flushed %d ids for %d reservations", round, flushed, len(reserved))
		}
		live = append(live, reserved...)

		freed := int(float64(len(live)) * cfg.FreeRatio)
		for range freed {
			j := rng.Uint64n(uint64(len(live)))
			if _, err := l.Free(live[j]); err != nil {
				return st, errs.Errorf("round %d: free %v: %v", round, live[j], err)
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		if n := l.Len(); n != len(live) {
			return st, errs.Errorf("round %d: allocator has %d live entities, expected %d", round, n, len(live))
		}

		st.Rounds++
		st.Reserved += len(reserved)
		st.Recycled += recycled
		st.Flushed += flushed
		st.Freed += freed
		st.Live = len(live)

		log.Info("round complete",
			zap.Int("round", round),
			zap.Int("reserved", len(reserved)),
			zap.Int("recycled", recycled),
			zap.Int("freed", freed),
			zap.Int("live", len(live)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return st, nil
}

// reserve runs the shared phase: every worker reserves cfg.Singles entities
// one at a time and then cfg.Batch more in one call.
func reserve(ctx context.Context, l *alloc.Locked, cfg Config) ([]entalloc.Entity, error) {
	results := make([][]entalloc.Entity, cfg.Workers)

	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Workers {
		g.Go(func() error {
			got := make([]entalloc.Entity, 0, cfg.Singles+int(cfg.Batch))
			for range cfg.Singles {
				if err := ctx.Err(); err != nil {
					return errs.Wrap(err)
				}
				got = append(got, l.ReserveEntity())
			}
			got = l.AppendReserved(got, cfg.Batch)

			for _, e := range got {
				if !l.Contains(e) {
					return errs.Errorf("reserved entity %v is not live", e)
				}
			}
			results[i] = got
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []entalloc.Entity
	for _, got := range results {
		all = append(all, got...)
	}
	return all, nil
}

// verify checks that the reserved ids are distinct and were drawn from the
// freelist before any new id past extent was handed out. It returns how many
// came from the freelist.
func verify(reserved []entalloc.Entity, extent int, freelist *roaring.Bitmap) (int, error) {
	got := roaring.New()
	for _, e := range reserved {
		if !got.CheckedAdd(e.ID()) {
			return 0, errs.Errorf("id %d reserved twice", e.ID())
		}
	}

	recycled := roaring.And(got, freelist).GetCardinality()
	fresh := roaring.AndNot(got, freelist)
	total := uint64(len(reserved))

	if recycled < min(total, freelist.GetCardinality()) {
		return 0, errs.Errorf("only %d of %d reservations used the freelist of %d",
			recycled, total, freelist.GetCardinality())
	}

	// distinct ids are contiguous exactly when max-min+1 equals the count.
	if n := fresh.GetCardinality(); n > 0 {
		if lo, hi := fresh.Minimum(), fresh.Maximum(); uint64(lo) != uint64(extent) || uint64(hi)-uint64(lo)+1 != n {
			return 0, errs.Errorf("new ids [%d, %d] do not continue from %d", lo, hi, extent)
		}
	}

	return int(recycled), nil
}
