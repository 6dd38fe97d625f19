package store

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

func TestAsyncSaverWrites(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemoryCache(), quiet())
	a := NewAsyncSaver(s, 0)
	defer a.Close()

	l := sample()
	if err := a.Save(ctx, "form", l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	a.Flush()

	got, err := s.Load(ctx, "form")
	if err != nil {
		t.Fatalf("Load after Flush: %v", err)
	}
	if !got.Equal(l) {
		t.Errorf("saved layout = %v", got)
	}
}

func TestAsyncSaverSnapshotsLayout(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemoryCache(), quiet())
	a := NewAsyncSaver(s, 4)
	defer a.Close()

	l := sample()
	_ = a.Save(ctx, "form", l)
	delete(l, "notes")
	a.Flush()

	got, _ := s.Load(ctx, "form")
	if _, ok := got["notes"]; !ok {
		t.Error("caller mutation after Save leaked into the stored layout")
	}
}

func TestAsyncSaverLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := New(cache.NewMemoryCache(), quiet())
	a := NewAsyncSaver(s, 8)
	defer a.Close()

	first := sample()
	second := grid.Layout{"solo": {ID: "solo", Width: 1}}
	_ = a.Save(ctx, "form", first)
	_ = a.Save(ctx, "form", second)
	a.Flush()

	got, _ := s.Load(ctx, "form")
	if !got.Equal(second) {
		t.Errorf("got %v, want the later save", got)
	}
}

// blockingCache blocks Set until release is closed.
type blockingCache struct {
	*cache.MemoryCache
	release chan struct{}
	once    sync.Once
	started chan struct{}
}

func (b *blockingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.MemoryCache.Set(ctx, key, data, ttl)
}

func TestAsyncSaverDropsWhenFull(t *testing.T) {
	ctx := context.Background()
	bc := &blockingCache{
		MemoryCache: cache.NewMemoryCache(),
		release:     make(chan struct{}),
		started:     make(chan struct{}),
	}
	a := NewAsyncSaver(New(bc, quiet()), 1)

	_ = a.Save(ctx, "a", sample())
	<-bc.started // worker holds "a"
	_ = a.Save(ctx, "b", sample())

	done := make(chan struct{})
	go func() {
		_ = a.Save(ctx, "c", sample()) // queue full: must not block
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Save blocked on a full queue")
	}

	close(bc.release)
	a.Close()

	if _, hit, _ := bc.Get(ctx, "layout:c"); hit {
		t.Error("save beyond queue capacity should be dropped")
	}
	if _, hit, _ := bc.Get(ctx, "layout:b"); !hit {
		t.Error("queued save should be written before Close returns")
	}
}

func TestAsyncSaverFailureIsSwallowed(t *testing.T) {
	a := NewAsyncSaver(New(failingCache{err: stderrors.New("down")}, quiet()), 2)
	if err := a.Save(context.Background(), "k", sample()); err != nil {
		t.Errorf("Save returned %v; failures are only logged", err)
	}
	a.Flush()
	_ = a.Close()
}

func TestAsyncSaverClose(t *testing.T) {
	a := NewAsyncSaver(New(cache.NewMemoryCache(), quiet()), 2)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := a.Save(context.Background(), "k", sample()); err != nil {
		t.Errorf("Save after Close: %v", err)
	}
	a.Flush() // no-op, must not hang
}
