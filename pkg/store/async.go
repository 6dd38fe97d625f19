package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

// DefaultQueueSize is the number of saves an AsyncSaver buffers.
const DefaultQueueSize = 32

// flushTimeout bounds how long Flush waits to enqueue its marker.
const flushTimeout = 5 * time.Second

type saveReq struct {
	ctx    context.Context
	key    string
	layout grid.Layout
	flush  chan struct{}
}

// AsyncSaver persists layouts on a background goroutine. Save never blocks:
// when the queue is full the save is dropped with a warning. Failed saves
// are logged.
type AsyncSaver struct {
	store  *LayoutStore
	logger *log.Logger

	saveCh chan saveReq
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncSaver starts the background writer. queueSize <= 0 uses
// DefaultQueueSize.
func NewAsyncSaver(s *LayoutStore, queueSize int) *AsyncSaver {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	a := &AsyncSaver{
		store:  s,
		logger: s.logger,
		saveCh: make(chan saveReq, queueSize),
		done:   make(chan struct{}),
	}
	go a.saveLoop()
	return a
}

// Save queues a clone of l. The error is always nil; it exists to satisfy
// interact.Saver.
func (a *AsyncSaver) Save(ctx context.Context, key string, l grid.Layout) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.logger.Warn("saver closed, dropping layout", "key", key)
		return nil
	}
	select {
	case a.saveCh <- saveReq{ctx: context.WithoutCancel(ctx), key: key, layout: l.Clone()}:
	default:
		a.logger.Warn("save queue full, dropping layout", "key", key)
	}
	return nil
}

func (a *AsyncSaver) saveLoop() {
	defer close(a.done)
	for req := range a.saveCh {
		if req.flush != nil {
			close(req.flush)
			continue
		}
		if err := a.store.Save(req.ctx, req.key, req.layout); err != nil {
			a.logger.Warn("save layout failed", "key", req.key, "err", err)
		}
	}
}

// Flush blocks until every save queued before it has been written.
func (a *AsyncSaver) Flush() {
	a.mu.RLock()
	if a.closed {
		a.mu.RUnlock()
		return
	}
	done := make(chan struct{})
	select {
	case a.saveCh <- saveReq{flush: done}:
		a.mu.RUnlock()
		<-done
	case <-time.After(flushTimeout):
		a.mu.RUnlock()
		a.logger.Warn("flush timed out waiting to enqueue")
	}
}

// Close drains the queue and stops the writer. It does not close the store.
func (a *AsyncSaver) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.saveCh)
	a.mu.Unlock()
	<-a.done
	return nil
}
