package main

import (
	"context"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/assert"
	"go.uber.org/zap/zaptest"

	"github.com/histdb/entalloc"
)

func TestStress(t *testing.T) {
	cfg := Defaults()
	cfg.Rounds = 6
	cfg.Workers = 4
	cfg.Singles = 50
	cfg.Batch = 30
	cfg.Preallocate = 100

	st, err := stress(context.Background(), cfg, zaptest.NewLogger(t))
	assert.NoError(t, err)

	perRound := cfg.Workers * (cfg.Singles + int(cfg.Batch))
	assert.Equal(t, st.Rounds, 6)
	assert.Equal(t, st.Reserved, 6*perRound)
	assert.Equal(t, st.Flushed, st.Reserved)
	assert.Equal(t, st.Live, cfg.Preallocate+st.Reserved-st.Freed)
	assert.That(t, st.Recycled > 0)
}

func TestStressCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Defaults()
	cfg.Preallocate = 0

	_, err := stress(ctx, cfg, zaptest.NewLogger(t))
	assert.That(t, err != nil)
}

func TestVerify(t *testing.T) {
	freelist := roaring.BitmapOf(2, 5)

	t.Run("FreelistThenNew", func(t *testing.T) {
		n, err := verify([]entalloc.Entity{
			entalloc.New(5, 1), entalloc.New(2, 1), entalloc.New(10, 0), entalloc.New(11, 0),
		}, 10, freelist)
		assert.NoError(t, err)
		assert.Equal(t, n, 2)
	})

	t.Run("OnlyFreelist", func(t *testing.T) {
		n, err := verify([]entalloc.Entity{entalloc.New(5, 1)}, 10, freelist)
		assert.NoError(t, err)
		assert.Equal(t, n, 1)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := verify([]entalloc.Entity{entalloc.New(2, 1), entalloc.New(2, 1)}, 10, freelist)
		assert.That(t, err != nil)
	})

	t.Run("SkippedFreelist", func(t *testing.T) {
		_, err := verify([]entalloc.Entity{entalloc.New(2, 1), entalloc.New(10, 0)}, 10, freelist)
		assert.That(t, err != nil)
	})

	t.Run("Gap", func(t *testing.T) {
		_, err := verify([]entalloc.Entity{
			entalloc.New(2, 1), entalloc.New(5, 1), entalloc.New(10, 0), entalloc.New(12, 0),
		}, 10, freelist)
		assert.That(t, err != nil)
	})

	t.Run("LiveID", func(t *testing.T) {
		_, err := verify([]entalloc.Entity{
			entalloc.New(2, 1), entalloc.New(5, 1), entalloc.New(3, 0),
		}, 10, freelist)
		assert.That(t, err != nil)
	})
}
